package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const commentCols = `id::text, video_id::text, author_id::text, body, likes, dislikes,
	parent_id::text, is_deleted, is_edited, edit_history, version, created_at, updated_at`

// PostgresCommentStore persists comments in Postgres. Comments are rows of
// their own, referenced by video id; the embedded representation of the
// original data model is intentionally not kept anywhere.
type PostgresCommentStore struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentStore(pool *pgxpool.Pool) *PostgresCommentStore {
	return &PostgresCommentStore{pool: pool}
}

func (s *PostgresCommentStore) Create(ctx context.Context, c Comment) (Comment, error) {
	q := `INSERT INTO comments (id, video_id, author_id, body, parent_id)
	      VALUES ($1, $2::uuid, $3::uuid, $4, $5::uuid)
	      RETURNING ` + commentCols
	row := s.pool.QueryRow(ctx, q, uuid.New(), c.VideoID, c.AuthorID, c.Body, c.ParentID)
	out, err := scanComment(row)
	if err != nil {
		return Comment{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresCommentStore) Get(ctx context.Context, id string) (Comment, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+commentCols+` FROM comments WHERE id::text = $1`, id)
	out, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, ErrNotFound
		}
		return Comment{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresCommentStore) SaveReactions(ctx context.Context, id string, version int64, likes, dislikes []string) (Comment, error) {
	q := `UPDATE comments
	      SET likes = $3, dislikes = $4, version = version + 1
	      WHERE id::text = $1 AND version = $2
	      RETURNING ` + commentCols
	if likes == nil {
		likes = []string{}
	}
	if dislikes == nil {
		dislikes = []string{}
	}
	row := s.pool.QueryRow(ctx, q, id, version, likes, dislikes)
	out, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, s.missingOrConflict(ctx, id)
		}
		return Comment{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresCommentStore) SaveBody(ctx context.Context, id string, version int64, body string, prev Edit) (Comment, error) {
	entry, err := json.Marshal([]Edit{prev})
	if err != nil {
		return Comment{}, storeErr(err)
	}
	q := `UPDATE comments
	      SET body = $3, is_edited = true, edit_history = edit_history || $4::jsonb,
	          version = version + 1, updated_at = now()
	      WHERE id::text = $1 AND version = $2
	      RETURNING ` + commentCols
	row := s.pool.QueryRow(ctx, q, id, version, body, entry)
	out, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, s.missingOrConflict(ctx, id)
		}
		return Comment{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresCommentStore) MarkDeleted(ctx context.Context, id string, version int64) (Comment, error) {
	q := `UPDATE comments
	      SET body = $3, is_deleted = true, version = version + 1, updated_at = now()
	      WHERE id::text = $1 AND version = $2
	      RETURNING ` + commentCols
	row := s.pool.QueryRow(ctx, q, id, version, DeletedBody)
	out, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, s.missingOrConflict(ctx, id)
		}
		return Comment{}, storeErr(err)
	}
	return out, nil
}

func (s *PostgresCommentStore) ListRoots(ctx context.Context, videoID string, page, pageSize int) ([]Comment, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	q := `SELECT ` + commentCols + ` FROM comments
	      WHERE video_id::text = $1 AND parent_id IS NULL
	      ORDER BY created_at DESC, id DESC
	      LIMIT $2 OFFSET $3`
	rows, err := s.pool.Query(ctx, q, videoID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	return scanComments(rows)
}

func (s *PostgresCommentStore) ListReplies(ctx context.Context, parentIDs []string) ([]Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + commentCols + ` FROM comments
	      WHERE parent_id::text = ANY($1)
	      ORDER BY created_at ASC, id ASC`
	rows, err := s.pool.Query(ctx, q, parentIDs)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	return scanComments(rows)
}

func (s *PostgresCommentStore) CountRoots(ctx context.Context, videoID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM comments WHERE video_id::text = $1 AND parent_id IS NULL`,
		videoID).Scan(&n)
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

func (s *PostgresCommentStore) DeleteByVideo(ctx context.Context, videoID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE video_id::text = $1`, videoID); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *PostgresCommentStore) missingOrConflict(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return ErrConflict
}

func scanComment(row pgx.Row) (Comment, error) {
	var c Comment
	var historyJSON []byte
	err := row.Scan(&c.ID, &c.VideoID, &c.AuthorID, &c.Body, &c.Likes, &c.Dislikes,
		&c.ParentID, &c.IsDeleted, &c.IsEdited, &historyJSON, &c.Version,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Comment{}, err
	}
	if len(historyJSON) > 0 {
		_ = json.Unmarshal(historyJSON, &c.EditHistory)
	}
	return c, nil
}

func scanComments(rows pgx.Rows) ([]Comment, error) {
	var out []Comment
	for rows.Next() {
		var c Comment
		var historyJSON []byte
		if err := rows.Scan(&c.ID, &c.VideoID, &c.AuthorID, &c.Body, &c.Likes, &c.Dislikes,
			&c.ParentID, &c.IsDeleted, &c.IsEdited, &historyJSON, &c.Version,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, storeErr(err)
		}
		if len(historyJSON) > 0 {
			_ = json.Unmarshal(historyJSON, &c.EditHistory)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}
