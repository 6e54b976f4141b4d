package models

import "time"

// Award представляет присуждение работы одному из предложений.
// Запись неизменяема после создания; у работы может быть не больше
// одного неотозванного присуждения.
type Award struct {
	ID            string     `json:"id"`
	JobID         string     `json:"jobId"`
	BidID         string     `json:"bidId"`
	AwardedUserID string     `json:"awardedUserId"`
	AwardedBy     string     `json:"awardedBy"`
	AwardAmount   float64    `json:"awardAmount"`
	Notes         string     `json:"notes,omitempty"`
	RevokedAt     *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// AwardRequest представляет структуру запроса для присуждения работы.
type AwardRequest struct {
	BidID  string  `json:"bidId"`
	Amount float64 `json:"amount"`
	Notes  string  `json:"notes"`
}
