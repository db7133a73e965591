package repo

import (
	"context"

	dom "jotbot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NoteRepo provides note persistence, scoped to the owning user.
type NoteRepo interface {
	Create(ctx context.Context, n dom.Note) (dom.Note, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]dom.Note, error)
	ListIDs(ctx context.Context, userID int64) ([]int64, error)
	Search(ctx context.Context, userID int64, q string, limit int) ([]dom.Note, error)
	DeleteAll(ctx context.Context, userID int64) (int64, error)
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) (int64, error)
}

type PGNoteRepo struct {
	db *pgxpool.Pool
}

func NewPGNoteRepo(db *pgxpool.Pool) *PGNoteRepo {
	return &PGNoteRepo{db: db}
}

const noteColumns = `id, user_id, title, content, tags, created_at`

func (r *PGNoteRepo) Create(ctx context.Context, n dom.Note) (dom.Note, error) {
	query := `
		INSERT INTO notes (user_id, title, content, tags)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + noteColumns
	row := r.db.QueryRow(ctx, query, n.UserID, n.Title, n.Content, dom.JoinTags(n.Tags))
	return scanNote(row)
}

func (r *PGNoteRepo) List(ctx context.Context, userID int64, limit, offset int) ([]dom.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectNotes(rows)
}

func (r *PGNoteRepo) ListIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM notes WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (r *PGNoteRepo) Search(ctx context.Context, userID int64, q string, limit int) ([]dom.Note, error) {
	pattern := "%" + q + "%"
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = $1
		  AND (COALESCE(title, '') ILIKE $2 OR content ILIKE $2 OR COALESCE(tags, '') ILIKE $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`
	rows, err := r.db.Query(ctx, query, userID, pattern, limit)
	if err != nil {
		return nil, err
	}
	return collectNotes(rows)
}

func (r *PGNoteRepo) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM notes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *PGNoteRepo) DeleteByIDs(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM notes WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanNote(row pgx.Row) (dom.Note, error) {
	var n dom.Note
	var tags *string
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &tags, &n.CreatedAt)
	if err != nil {
		return dom.Note{}, err
	}
	n.Tags = dom.SplitTags(tags)
	return n, nil
}

func collectNotes(rows pgx.Rows) ([]dom.Note, error) {
	defer rows.Close()
	var list []dom.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}
