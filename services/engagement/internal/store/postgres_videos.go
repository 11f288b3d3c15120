package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const videoCols = `id::text, uploader_id::text, title, description, category, tags, views,
	likes, dislikes, comment_count, is_public, duration, video_url, thumbnail_url,
	version, created_at, updated_at`

const videoSummaryCols = `id::text, uploader_id::text, title, description, category, tags,
	thumbnail_url, duration, views, cardinality(likes), is_public, created_at`

// PostgresVideoStore persists videos in Postgres.
type PostgresVideoStore struct {
	pool *pgxpool.Pool
}

func NewPostgresVideoStore(pool *pgxpool.Pool) *PostgresVideoStore {
	return &PostgresVideoStore{pool: pool}
}

func (s *PostgresVideoStore) Create(ctx context.Context, v Video) (Video, error) {
	q := `INSERT INTO videos (id, uploader_id, title, description, category, tags,
	        is_public, duration, video_url, thumbnail_url)
	      VALUES ($1, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10)
	      RETURNING ` + videoCols
	if v.Tags == nil {
		v.Tags = []string{}
	}
	row := s.pool.QueryRow(ctx, q, uuid.New(), v.UploaderID, v.Title, v.Description,
		v.Category, v.Tags, v.IsPublic, v.Duration, v.VideoURL, v.ThumbnailURL)
	out, err := scanVideo(row)
	if err != nil {
		return Video{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresVideoStore) Get(ctx context.Context, id string) (Video, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+videoCols+` FROM videos WHERE id::text = $1`, id)
	out, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Video{}, ErrNotFound
		}
		return Video{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresVideoStore) Update(ctx context.Context, v Video) (Video, error) {
	q := `UPDATE videos
	      SET title = $3, description = $4, category = $5, tags = $6, is_public = $7,
	          version = version + 1, updated_at = now()
	      WHERE id::text = $1 AND version = $2
	      RETURNING ` + videoCols
	if v.Tags == nil {
		v.Tags = []string{}
	}
	row := s.pool.QueryRow(ctx, q, v.ID, v.Version, v.Title, v.Description, v.Category,
		v.Tags, v.IsPublic)
	out, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Video{}, s.missingOrConflict(ctx, v.ID)
		}
		return Video{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresVideoStore) SaveReactions(ctx context.Context, id string, version int64, likes, dislikes []string) (Video, error) {
	q := `UPDATE videos
	      SET likes = $3, dislikes = $4, version = version + 1, updated_at = now()
	      WHERE id::text = $1 AND version = $2
	      RETURNING ` + videoCols
	if likes == nil {
		likes = []string{}
	}
	if dislikes == nil {
		dislikes = []string{}
	}
	row := s.pool.QueryRow(ctx, q, id, version, likes, dislikes)
	out, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Video{}, s.missingOrConflict(ctx, id)
		}
		return Video{}, storeErr(err)
	}
	return out, nil
}

// IncrementViews is a relative update: concurrent calls serialize on the row
// and each one lands, so increments are never lost.
func (s *PostgresVideoStore) IncrementViews(ctx context.Context, id string) (int64, error) {
	q := `UPDATE videos SET views = views + 1 WHERE id::text = $1 RETURNING views`
	var views int64
	if err := s.pool.QueryRow(ctx, q, id).Scan(&views); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, storeErr(err)
	}
	return views, nil
}

func (s *PostgresVideoStore) AdjustCommentCount(ctx context.Context, id string, delta int64) error {
	q := `UPDATE videos SET comment_count = GREATEST(comment_count + $2, 0) WHERE id::text = $1`
	tag, err := s.pool.Exec(ctx, q, id, delta)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresVideoStore) Delete(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storeErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE video_id::text = $1`, id); err != nil {
		return storeErr(err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM videos WHERE id::text = $1`, id)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *PostgresVideoStore) ListSummaries(ctx context.Context) ([]VideoSummary, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+videoSummaryCols+` FROM videos`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (s *PostgresVideoStore) ListByUploader(ctx context.Context, uploaderID string, page, pageSize int) ([]VideoSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	q := `SELECT ` + videoSummaryCols + ` FROM videos
	      WHERE uploader_id::text = $1 AND is_public
	      ORDER BY created_at DESC, id DESC
	      LIMIT $2 OFFSET $3`
	rows, err := s.pool.Query(ctx, q, uploaderID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	defer rows.Close()

	out, err := scanSummaries(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = s.pool.QueryRow(ctx,
		`SELECT count(*) FROM videos WHERE uploader_id::text = $1 AND is_public`, uploaderID).Scan(&total)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	return out, total, nil
}

// missingOrConflict disambiguates a zero-row conditional write.
func (s *PostgresVideoStore) missingOrConflict(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return ErrConflict
}

func scanVideo(row pgx.Row) (Video, error) {
	var v Video
	err := row.Scan(&v.ID, &v.UploaderID, &v.Title, &v.Description, &v.Category, &v.Tags,
		&v.Views, &v.Likes, &v.Dislikes, &v.CommentCount, &v.IsPublic, &v.Duration,
		&v.VideoURL, &v.ThumbnailURL, &v.Version, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func scanSummaries(rows pgx.Rows) ([]VideoSummary, error) {
	var out []VideoSummary
	for rows.Next() {
		var v VideoSummary
		if err := rows.Scan(&v.ID, &v.UploaderID, &v.Title, &v.Description, &v.Category,
			&v.Tags, &v.ThumbnailURL, &v.Duration, &v.Views, &v.LikeCount,
			&v.IsPublic, &v.CreatedAt); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}
