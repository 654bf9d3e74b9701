package inbound

import (
	"net/http"
	"time"

	"github.com/desatrip/desatrip/internal/review/entity"
)

type ReviewResponse struct {
	ID         int64     `json:"id,string"`
	AuthorName string    `json:"author_name"`
	Rating     int16     `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func toReviewResponse(r entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

type ReviewListResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
}

type ReviewCreateRequest struct {
	Rating  int16  `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewCreateResponse struct {
	ID int64 `json:"id,string"`
}

func (ReviewCreateResponse) StatusCode() int { return http.StatusCreated }
func (ReviewCreateResponse) Message() string { return "Review submitted" }
