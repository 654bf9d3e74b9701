package entity

import "time"

type Village struct {
	ID          int64
	Name        string
	Slug        string
	District    string
	State       string
	Description string
	CoverKey    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Room struct {
	ID             int64
	VillageID      int64
	HostID         int64
	Title          string
	Description    string
	Capacity       int16
	PriceNightPaise int64
	PhotoKey       string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Guide struct {
	ID          int64
	VillageID   int64
	AccountID   int64
	FullName    string
	Bio         string
	Languages   []string
	FeeDayPaise int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewVillage struct {
	ID          int64
	Name        string
	Slug        string
	District    string
	State       string
	Description string
}

type PatchVillage struct {
	ID          int64
	Name        string
	District    string
	State       string
	Description string
	Active      *bool
}

type NewRoom struct {
	ID              int64
	VillageID       int64
	HostID          int64
	Title           string
	Description     string
	Capacity        int16
	PriceNightPaise int64
}

type NewGuide struct {
	ID          int64
	VillageID   int64
	AccountID   int64
	FullName    string
	Bio         string
	Languages   []string
	FeeDayPaise int64
}

// ListFilter is shared page/limit pagination. Offset is (page-1)*limit.
type ListFilter struct {
	Page   int32
	Limit  int32
	Search string
}

func (f ListFilter) Offset() int32 {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
