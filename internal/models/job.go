package models

import "time"

type (
	JobType   string // Тип работы
	JobStatus string // Статус работы
)

const (
	TechJob    JobType = "tech"    // Работа для техника
	TrainerJob JobType = "trainer" // Работа для тренера

	OpenJob       JobStatus = "OPEN"        // Работа открыта для предложений
	BiddingJob    JobStatus = "BIDDING"     // По работе есть активные предложения
	AwardedJob    JobStatus = "AWARDED"     // Работа присуждена исполнителю
	UpcomingJob   JobStatus = "UPCOMING"    // Выполнение запланировано
	InProgressJob JobStatus = "IN_PROGRESS" // Работа выполняется
	OnHoldJob     JobStatus = "ON_HOLD"     // Выполнение приостановлено
	CompletedJob  JobStatus = "COMPLETED"   // Работа завершена
	CancelledJob  JobStatus = "CANCELLED"   // Работа отменена
)

// Job представляет модель работы.
type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	JobType      JobType   `json:"jobType"`
	Status       JobStatus `json:"status"`
	Priority     string    `json:"priority"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ContactName  string    `json:"contactName"`
	ContactPhone string    `json:"contactPhone"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// JobRequest представляет структуру запроса для создания работы.
type JobRequest struct {
	Title        string  `json:"title"`
	JobType      JobType `json:"jobType"`
	Priority     string  `json:"priority"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ContactName  string  `json:"contactName"`
	ContactPhone string  `json:"contactPhone"`
}

// JobSummary представляет публичную сводку по работе со счетчиком предложений.
type JobSummary struct {
	Job
	BidCount int `json:"bidCount"`
}

// ValidJobType проверяет, что тип работы входит в список допустимых.
func ValidJobType(t JobType) bool {
	switch t {
	case TechJob, TrainerJob:
		return true
	default:
		return false
	}
}
