package db

import (
	"context"
	"fmt"

	"github.com/optimald/medequiptech/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitDb инициализирует подключение к базе данных и возвращает пул соединений.
func InitDb(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.PostgresConn == "" {
		return nil, fmt.Errorf("POSTGRES_CONN is not set")
	}

	dbPool, err := pgxpool.New(ctx, cfg.PostgresConn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database is unreachable: %v", err)
	}

	return dbPool, nil
}
