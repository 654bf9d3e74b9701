package entity

import "time"

type Review struct {
	ID         int64
	VillageID  int64
	AccountID  int64
	AuthorName string
	Rating     int16
	Comment    string
	CreatedAt  time.Time
}

type NewReview struct {
	ID        int64
	VillageID int64
	AccountID int64
	Rating    int16
	Comment   string
}
