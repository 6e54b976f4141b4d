package repository

import (
	"context"

	"github.com/optimald/medequiptech/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repos - набор репозиториев, работающих над одним Querier.
type Repos interface {
	Jobs() JobRepository
	Bids() BidRepository
	Awards() AwardRepository
	Users() UserRepository
}

// Store отдает репозитории для обычных чтений и выполняет fn над набором
// репозиториев внутри одной транзакции. Либо фиксируются все изменения fn,
// либо ни одно из них.
type Store interface {
	Repos
	Transact(ctx context.Context, fn func(Repos) error) error
}

type repoSet struct {
	jobs   *PostgresJobRepository
	bids   *PostgresBidRepository
	awards *PostgresAwardRepository
	users  *PostgresUserRepository
}

func newRepoSet(q Querier) repoSet {
	return repoSet{
		jobs:   NewPostgresJobRepository(q),
		bids:   NewPostgresBidRepository(q),
		awards: NewPostgresAwardRepository(q),
		users:  NewPostgresUserRepository(q),
	}
}

func (s repoSet) Jobs() JobRepository     { return s.jobs }
func (s repoSet) Bids() BidRepository     { return s.bids }
func (s repoSet) Awards() AwardRepository { return s.awards }
func (s repoSet) Users() UserRepository   { return s.users }

// PostgresStore - реализация Store поверх пула pgx.
type PostgresStore struct {
	repoSet
	pool *pgxpool.Pool
}

// NewPostgresStore создает новый экземпляр PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		repoSet: newRepoSet(pool),
		pool:    pool,
	}
}

// Transact выполняет fn внутри одной транзакции и передает ему репозитории,
// привязанные к ней. Ошибки начала и фиксации транзакции считаются
// временными: через них не прошла ни одна запись, повтор безопасен.
func (s *PostgresStore) Transact(ctx context.Context, fn func(Repos) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Wrap(apperr.Transient, "failed to begin transaction", err)
	}

	if err := fn(newRepoSet(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
			return apperr.Wrap(apperr.Transient, "tx rollback failed", err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.Transient, "failed to commit transaction", err)
	}
	return nil
}
