package repository

import (
	"context"
	"time"

	"github.com/optimald/medequiptech/internal/apperr"
	"github.com/optimald/medequiptech/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresBidRepository - реализация BidRepository для базы данных.
type PostgresBidRepository struct {
	DB Querier
}

// NewPostgresBidRepository создает новый экземпляр PostgresBidRepository.
func NewPostgresBidRepository(db Querier) *PostgresBidRepository {
	return &PostgresBidRepository{DB: db}
}

const bidColumns = `id, job_id, bidder_id, ask_price, note, status, created_at, updated_at`

func scanBid(row interface{ Scan(...any) error }, bid *models.Bid) error {
	return row.Scan(
		&bid.ID,
		&bid.JobID,
		&bid.BidderID,
		&bid.AskPrice,
		&bid.Note,
		&bid.Status,
		&bid.CreatedAt,
		&bid.UpdatedAt)
}

// CreateBid создает новое предложение в статусе submitted. Повторная
// активная подача той же парой (работа, участник) упирается в частичный
// уникальный индекс и возвращает Conflict.
func (r *PostgresBidRepository) CreateBid(ctx context.Context, bidReq models.BidRequest) (*models.Bid, error) {
	newBid := models.Bid{
		ID:        uuid.New().String(),
		JobID:     bidReq.JobID,
		BidderID:  bidReq.BidderID,
		AskPrice:  bidReq.AskPrice,
		Note:      bidReq.Note,
		Status:    models.SubmittedBid,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	insertQuery := `INSERT INTO bid (id, job_id, bidder_id, ask_price, note, status, created_at, updated_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		newBid.ID,
		newBid.JobID,
		newBid.BidderID,
		newBid.AskPrice,
		newBid.Note,
		newBid.Status,
		newBid.CreatedAt,
		newBid.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "bidder already has a submitted bid on this job")
		}
		return nil, err
	}
	return &newBid, nil
}

// GetBid получает предложение по ID.
func (r *PostgresBidRepository) GetBid(ctx context.Context, bidID string) (*models.Bid, error) {
	var bid models.Bid
	query := `SELECT ` + bidColumns + ` FROM bid WHERE id = $1`
	err := scanBid(r.DB.QueryRow(ctx, query, bidID), &bid)
	if err != nil {
		if noRows(err) {
			return nil, apperr.New(apperr.NotFound, "bid not found")
		}
		return nil, err
	}
	return &bid, nil
}

// GetBidForUpdate получает предложение по ID с блокировкой строки до конца
// транзакции.
func (r *PostgresBidRepository) GetBidForUpdate(ctx context.Context, bidID string) (*models.Bid, error) {
	var bid models.Bid
	query := `SELECT ` + bidColumns + ` FROM bid WHERE id = $1 FOR UPDATE`
	err := scanBid(r.DB.QueryRow(ctx, query, bidID), &bid)
	if err != nil {
		if noRows(err) {
			return nil, apperr.New(apperr.NotFound, "bid not found")
		}
		return nil, err
	}
	return &bid, nil
}

// UpdateBidStatus меняет статус предложения.
func (r *PostgresBidRepository) UpdateBidStatus(ctx context.Context, bidID string, status models.BidStatus) error {
	updateQuery := `UPDATE bid SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.DB.Exec(ctx, updateQuery, status, bidID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "bid not found")
	}
	return nil
}

// RejectSubmittedBids отклоняет все поданные предложения по работе, кроме
// выигравшего. Вызывается внутри транзакции присуждения.
func (r *PostgresBidRepository) RejectSubmittedBids(ctx context.Context, jobID, exceptBidID string) error {
	updateQuery := `UPDATE bid SET status = $1, updated_at = NOW()
	                WHERE job_id = $2 AND status = $3 AND id <> $4`
	_, err := r.DB.Exec(ctx, updateQuery, models.RejectedBid, jobID, models.SubmittedBid, exceptBidID)
	return err
}

// CountSubmittedBids возвращает число поданных предложений по работе.
func (r *PostgresBidRepository) CountSubmittedBids(ctx context.Context, jobID string) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM bid WHERE job_id = $1 AND status = $2`
	err := r.DB.QueryRow(ctx, query, jobID, models.SubmittedBid).Scan(&count)
	return count, err
}

// ListJobBids возвращает список предложений по работе.
func (r *PostgresBidRepository) ListJobBids(ctx context.Context, jobID string, limit, offset int) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid
	          WHERE job_id = $1
	          ORDER BY created_at
	          LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, jobID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectBids(rows)
}

// ListUserBids возвращает список предложений пользователя.
func (r *PostgresBidRepository) ListUserBids(ctx context.Context, bidderID string, limit, offset int) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid
	          WHERE bidder_id = $1
	          ORDER BY created_at DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, bidderID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectBids(rows)
}

func collectBids(rows pgx.Rows) ([]models.Bid, error) {
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		var bid models.Bid
		if err := scanBid(rows, &bid); err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}
