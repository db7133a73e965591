package repo

import (
	"context"

	dom "jotbot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IdeaRepo provides idea persistence, scoped to the owning user.
type IdeaRepo interface {
	Create(ctx context.Context, i dom.Idea) (dom.Idea, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]dom.Idea, error)
	ListIDs(ctx context.Context, userID int64) ([]int64, error)
	Search(ctx context.Context, userID int64, q string, limit int) ([]dom.Idea, error)
	DeleteAll(ctx context.Context, userID int64) (int64, error)
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) (int64, error)
}

type PGIdeaRepo struct {
	db *pgxpool.Pool
}

func NewPGIdeaRepo(db *pgxpool.Pool) *PGIdeaRepo {
	return &PGIdeaRepo{db: db}
}

const ideaColumns = `id, user_id, title, description, tags, created_at`

func (r *PGIdeaRepo) Create(ctx context.Context, i dom.Idea) (dom.Idea, error) {
	query := `
		INSERT INTO ideas (user_id, title, description, tags)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + ideaColumns
	row := r.db.QueryRow(ctx, query, i.UserID, i.Title, i.Description, dom.JoinTags(i.Tags))
	return scanIdea(row)
}

func (r *PGIdeaRepo) List(ctx context.Context, userID int64, limit, offset int) ([]dom.Idea, error) {
	query := `
		SELECT ` + ideaColumns + `
		FROM ideas WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectIdeas(rows)
}

func (r *PGIdeaRepo) ListIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM ideas WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (r *PGIdeaRepo) Search(ctx context.Context, userID int64, q string, limit int) ([]dom.Idea, error) {
	pattern := "%" + q + "%"
	query := `
		SELECT ` + ideaColumns + `
		FROM ideas
		WHERE user_id = $1
		  AND (title ILIKE $2 OR COALESCE(description, '') ILIKE $2 OR COALESCE(tags, '') ILIKE $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`
	rows, err := r.db.Query(ctx, query, userID, pattern, limit)
	if err != nil {
		return nil, err
	}
	return collectIdeas(rows)
}

func (r *PGIdeaRepo) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM ideas WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *PGIdeaRepo) DeleteByIDs(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM ideas WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanIdea(row pgx.Row) (dom.Idea, error) {
	var i dom.Idea
	var tags *string
	err := row.Scan(&i.ID, &i.UserID, &i.Title, &i.Description, &tags, &i.CreatedAt)
	if err != nil {
		return dom.Idea{}, err
	}
	i.Tags = dom.SplitTags(tags)
	return i, nil
}

func collectIdeas(rows pgx.Rows) ([]dom.Idea, error) {
	defer rows.Close()
	var list []dom.Idea
	for rows.Next() {
		i, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, i)
	}
	return list, rows.Err()
}
