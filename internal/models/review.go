package models

import "time"

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

type Review struct {
	Id           string       `json:"id"`
	GasStationId string       `json:"gas_station_id"`
	Rating       int          `json:"rating"`
	Comment      string       `json:"comment,omitempty"`
	ReviewerName string       `json:"reviewer_name,omitempty"`
	ReviewerIp   string       `json:"-"`
	Status       ReviewStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}

type ReviewRequest struct {
	GasStationId string `json:"gas_station_id" form:"gas_station_id" binding:"required"`
	Rating       int    `json:"rating" form:"rating" binding:"required"`
	Comment      string `json:"comment" form:"comment"`
	ReviewerName string `json:"reviewer_name" form:"reviewer_name"`
}
