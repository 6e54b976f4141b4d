package repository

import (
	"context"
	"time"

	"github.com/optimald/medequiptech/internal/apperr"
	"github.com/optimald/medequiptech/internal/models"

	"github.com/google/uuid"
)

// PostgresJobRepository - реализация JobRepository для базы данных.
type PostgresJobRepository struct {
	DB Querier
}

// NewPostgresJobRepository создает новый экземпляр PostgresJobRepository.
func NewPostgresJobRepository(db Querier) *PostgresJobRepository {
	return &PostgresJobRepository{DB: db}
}

const jobColumns = `id, title, job_type, status, priority, city, state, contact_name, contact_phone, created_by, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }, job *models.Job) error {
	return row.Scan(
		&job.ID,
		&job.Title,
		&job.JobType,
		&job.Status,
		&job.Priority,
		&job.City,
		&job.State,
		&job.ContactName,
		&job.ContactPhone,
		&job.CreatedBy,
		&job.CreatedAt,
		&job.UpdatedAt)
}

// CreateJob создает новую работу в статусе OPEN.
func (r *PostgresJobRepository) CreateJob(ctx context.Context, jobReq models.JobRequest, createdBy string) (*models.Job, error) {
	newJob := models.Job{
		ID:           uuid.New().String(),
		Title:        jobReq.Title,
		JobType:      jobReq.JobType,
		Status:       models.OpenJob,
		Priority:     jobReq.Priority,
		City:         jobReq.City,
		State:        jobReq.State,
		ContactName:  jobReq.ContactName,
		ContactPhone: jobReq.ContactPhone,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if newJob.Priority == "" {
		newJob.Priority = "normal"
	}

	insertQuery := `INSERT INTO job (id, title, job_type, status, priority, city, state, contact_name, contact_phone, created_by, created_at, updated_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		newJob.ID,
		newJob.Title,
		newJob.JobType,
		newJob.Status,
		newJob.Priority,
		newJob.City,
		newJob.State,
		newJob.ContactName,
		newJob.ContactPhone,
		newJob.CreatedBy,
		newJob.CreatedAt,
		newJob.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &newJob, nil
}

// GetJob получает работу по ID.
func (r *PostgresJobRepository) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	query := `SELECT ` + jobColumns + ` FROM job WHERE id = $1`
	err := scanJob(r.DB.QueryRow(ctx, query, jobID), &job)
	if err != nil {
		if noRows(err) {
			return nil, apperr.New(apperr.NotFound, "job not found")
		}
		return nil, err
	}
	return &job, nil
}

// GetJobForUpdate получает работу по ID с блокировкой строки до конца
// транзакции. Через эту блокировку сериализуются все изменения статуса,
// набора предложений и присуждения одной работы.
func (r *PostgresJobRepository) GetJobForUpdate(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	query := `SELECT ` + jobColumns + ` FROM job WHERE id = $1 FOR UPDATE`
	err := scanJob(r.DB.QueryRow(ctx, query, jobID), &job)
	if err != nil {
		if noRows(err) {
			return nil, apperr.New(apperr.NotFound, "job not found")
		}
		return nil, err
	}
	return &job, nil
}

// UpdateJobStatus меняет статус работы.
func (r *PostgresJobRepository) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	updateQuery := `UPDATE job SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.DB.Exec(ctx, updateQuery, status, jobID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "job not found")
	}
	return nil
}

// GetJobSummary возвращает публичную сводку по работе со счетчиком
// активных предложений.
func (r *PostgresJobRepository) GetJobSummary(ctx context.Context, jobID string) (*models.JobSummary, error) {
	var summary models.JobSummary
	query := `
		SELECT j.id, j.title, j.job_type, j.status, j.priority, j.city, j.state,
		       j.contact_name, j.contact_phone, j.created_by, j.created_at, j.updated_at,
		       COUNT(b.id) FILTER (WHERE b.status = 'submitted')
		FROM job j
		LEFT JOIN bid b ON b.job_id = j.id
		WHERE j.id = $1
		GROUP BY j.id`
	err := r.DB.QueryRow(ctx, query, jobID).Scan(
		&summary.ID,
		&summary.Title,
		&summary.JobType,
		&summary.Status,
		&summary.Priority,
		&summary.City,
		&summary.State,
		&summary.ContactName,
		&summary.ContactPhone,
		&summary.CreatedBy,
		&summary.CreatedAt,
		&summary.UpdatedAt,
		&summary.BidCount)
	if err != nil {
		if noRows(err) {
			return nil, apperr.New(apperr.NotFound, "job not found")
		}
		return nil, err
	}
	return &summary, nil
}

// ListUserAwardedJobs возвращает список работ, присужденных пользователю.
func (r *PostgresJobRepository) ListUserAwardedJobs(ctx context.Context, userID string, limit, offset int) ([]models.Job, error) {
	query := `
		SELECT j.id, j.title, j.job_type, j.status, j.priority, j.city, j.state,
		       j.contact_name, j.contact_phone, j.created_by, j.created_at, j.updated_at
		FROM job j
		JOIN award a ON a.job_id = j.id AND a.revoked_at IS NULL
		WHERE a.awarded_user_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var job models.Job
		if err := scanJob(rows, &job); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
