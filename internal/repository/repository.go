package repository

import (
	"context"
	"errors"

	"github.com/optimald/medequiptech/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier - общий интерфейс для пула соединений и транзакции, чтобы одни и
// те же репозитории работали и снаружи, и внутри атомарной операции.
// Его реализуют *pgxpool.Pool и pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// JobRepository - интерфейс для работы с работами.
type JobRepository interface {
	CreateJob(ctx context.Context, jobReq models.JobRequest, createdBy string) (*models.Job, error)
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	GetJobForUpdate(ctx context.Context, jobID string) (*models.Job, error)
	UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus) error
	GetJobSummary(ctx context.Context, jobID string) (*models.JobSummary, error)
	ListUserAwardedJobs(ctx context.Context, userID string, limit, offset int) ([]models.Job, error)
}

// BidRepository - интерфейс для работы с предложениями.
type BidRepository interface {
	CreateBid(ctx context.Context, bidReq models.BidRequest) (*models.Bid, error)
	GetBid(ctx context.Context, bidID string) (*models.Bid, error)
	GetBidForUpdate(ctx context.Context, bidID string) (*models.Bid, error)
	UpdateBidStatus(ctx context.Context, bidID string, status models.BidStatus) error
	RejectSubmittedBids(ctx context.Context, jobID, exceptBidID string) error
	CountSubmittedBids(ctx context.Context, jobID string) (int, error)
	ListJobBids(ctx context.Context, jobID string, limit, offset int) ([]models.Bid, error)
	ListUserBids(ctx context.Context, bidderID string, limit, offset int) ([]models.Bid, error)
}

// AwardRepository - интерфейс для работы с присуждениями.
type AwardRepository interface {
	CreateAward(ctx context.Context, award models.Award) (*models.Award, error)
	GetActiveAward(ctx context.Context, jobID string) (*models.Award, error)
}

// UserRepository - интерфейс чтения проекции профилей.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// isUniqueViolation проверяет, что ошибка - нарушение уникального индекса.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// noRows проверяет, что запрос не вернул строк.
func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
