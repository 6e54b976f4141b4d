package repository

import (
	"context"
	"time"

	"github.com/optimald/medequiptech/internal/apperr"
	"github.com/optimald/medequiptech/internal/models"

	"github.com/google/uuid"
)

// PostgresAwardRepository - реализация AwardRepository для базы данных.
type PostgresAwardRepository struct {
	DB Querier
}

// NewPostgresAwardRepository создает новый экземпляр PostgresAwardRepository.
func NewPostgresAwardRepository(db Querier) *PostgresAwardRepository {
	return &PostgresAwardRepository{DB: db}
}

// CreateAward создает присуждение работы. Второе активное присуждение той же
// работы упирается в частичный уникальный индекс и возвращает Conflict.
func (r *PostgresAwardRepository) CreateAward(ctx context.Context, award models.Award) (*models.Award, error) {
	newAward := award
	newAward.ID = uuid.New().String()
	newAward.CreatedAt = time.Now().UTC()

	insertQuery := `INSERT INTO award (id, job_id, bid_id, awarded_user_id, awarded_by, award_amount, notes, created_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		newAward.ID,
		newAward.JobID,
		newAward.BidID,
		newAward.AwardedUserID,
		newAward.AwardedBy,
		newAward.AwardAmount,
		newAward.Notes,
		newAward.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "job already has an active award")
		}
		return nil, err
	}
	return &newAward, nil
}

// GetActiveAward получает неотозванное присуждение по работе.
func (r *PostgresAwardRepository) GetActiveAward(ctx context.Context, jobID string) (*models.Award, error) {
	var award models.Award
	query := `SELECT id, job_id, bid_id, awarded_user_id, awarded_by, award_amount, notes, revoked_at, created_at
	          FROM award WHERE job_id = $1 AND revoked_at IS NULL`
	err := r.DB.QueryRow(ctx, query, jobID).Scan(
		&award.ID,
		&award.JobID,
		&award.BidID,
		&award.AwardedUserID,
		&award.AwardedBy,
		&award.AwardAmount,
		&award.Notes,
		&award.RevokedAt,
		&award.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, apperr.New(apperr.NotFound, "job has no active award")
		}
		return nil, err
	}
	return &award, nil
}
