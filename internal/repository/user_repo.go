package repository

import (
	"context"

	"github.com/optimald/medequiptech/internal/apperr"
	"github.com/optimald/medequiptech/internal/models"
)

// PostgresUserRepository читает проекцию профилей из сервиса идентификации.
// Ядро никогда не пишет в app_user.
type PostgresUserRepository struct {
	DB Querier
}

// NewPostgresUserRepository создает новый экземпляр PostgresUserRepository.
func NewPostgresUserRepository(db Querier) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetUser получает пользователя по ID.
func (r *PostgresUserRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	query := `SELECT id, full_name, email, is_approved, role_tech, role_trainer, role_admin
	          FROM app_user WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.IsApproved,
		&user.RoleTech,
		&user.RoleTrainer,
		&user.RoleAdmin)
	if err != nil {
		if noRows(err) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, err
	}
	return &user, nil
}
