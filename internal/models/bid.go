package models

import "time"

type BidStatus string // Статус предложения

const (
	SubmittedBid BidStatus = "submitted" // Предложение подано
	WithdrawnBid BidStatus = "withdrawn" // Предложение отозвано автором
	AcceptedBid  BidStatus = "accepted"  // Предложение принято при присуждении
	RejectedBid  BidStatus = "rejected"  // Предложение отклонено при присуждении
)

// Bid представляет модель предложения по работе.
type Bid struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	BidderID  string    `json:"bidderId"`
	AskPrice  float64   `json:"askPrice"`
	Note      string    `json:"note,omitempty"`
	Status    BidStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// BidRequest представляет структуру запроса для подачи предложения.
type BidRequest struct {
	JobID    string  `json:"jobId"`
	BidderID string  `json:"bidderId"`
	AskPrice float64 `json:"askPrice"`
	Note     string  `json:"note"`
}

// ValidBidStatus проверяет, что статус предложения входит в список допустимых.
func ValidBidStatus(s BidStatus) bool {
	switch s {
	case SubmittedBid, WithdrawnBid, AcceptedBid, RejectedBid:
		return true
	default:
		return false
	}
}
