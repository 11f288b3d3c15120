package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userCols = `id::text, username, email, password_hash, channel_name, avatar_url, role,
	subscriber_count, subscribed_channels, version, created_at, updated_at`

// PostgresUserStore persists users in Postgres.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (s *PostgresUserStore) Create(ctx context.Context, u User) (User, error) {
	if u.Role == "" {
		u.Role = "user"
	}
	q := `INSERT INTO users (id, username, email, password_hash, channel_name, avatar_url, role)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)
	      RETURNING ` + userCols
	row := s.pool.QueryRow(ctx, q, uuid.New(), u.Username, u.Email, u.PasswordHash,
		u.ChannelName, u.AvatarURL, u.Role)
	out, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrExists
		}
		return User{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresUserStore) Get(ctx context.Context, id string) (User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id::text = $1`, id)
	out, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresUserStore) GetByLogin(ctx context.Context, login string) (User, error) {
	q := `SELECT ` + userCols + ` FROM users
	      WHERE lower(username) = lower($1) OR lower(email) = lower($1)
	      LIMIT 1`
	row := s.pool.QueryRow(ctx, q, login)
	out, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresUserStore) SaveChannels(ctx context.Context, id string, version int64, channels []string) (User, error) {
	q := `UPDATE users
	      SET subscribed_channels = $3, version = version + 1, updated_at = now()
	      WHERE id::text = $1 AND version = $2
	      RETURNING ` + userCols
	if channels == nil {
		channels = []string{}
	}
	row := s.pool.QueryRow(ctx, q, id, version, channels)
	out, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Zero rows means either the row is gone or someone else won the
			// write; distinguish so the service knows whether to retry.
			if _, getErr := s.Get(ctx, id); errors.Is(getErr, ErrNotFound) {
				return User{}, ErrNotFound
			}
			return User{}, ErrConflict
		}
		return User{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresUserStore) AdjustSubscriberCount(ctx context.Context, id string, delta int64) (int64, error) {
	q := `UPDATE users
	      SET subscriber_count = GREATEST(subscriber_count + $2, 0), updated_at = now()
	      WHERE id::text = $1
	      RETURNING subscriber_count`
	var count int64
	if err := s.pool.QueryRow(ctx, q, id, delta).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, storeErr(err)
	}
	return count, nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ChannelName,
		&u.AvatarURL, &u.Role, &u.SubscriberCount, &u.SubscribedChannels,
		&u.Version, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// storeErr wraps unexpected database failures so callers can match on
// ErrUnavailable without losing the cause.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
