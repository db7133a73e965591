package repo

import (
	"context"

	dom "jotbot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepo provides task persistence. Every query is scoped to the owning
// user; ids from other users never match.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	UpdateAnalysis(ctx context.Context, id int64, importance, urgency int, reason string, priorityScore float64) error
	GetByID(ctx context.Context, userID, id int64) (dom.Task, error)
	SetStatus(ctx context.Context, userID, id int64, status dom.Status) (bool, error)
	UpdateDeadline(ctx context.Context, userID, id int64, deadline string) (bool, error)
	List(ctx context.Context, userID int64, filter dom.Filter, limit, offset int) ([]dom.Task, error)
	ListIDs(ctx context.Context, userID int64) ([]int64, error)
	TopByPriority(ctx context.Context, userID int64, limit int) ([]dom.Task, error)
	DueOrHighPriority(ctx context.Context, userID int64, today string, threshold float64, limit int) ([]dom.Task, error)
	Search(ctx context.Context, userID int64, q string, limit int) ([]dom.Task, error)
	DeleteAll(ctx context.Context, userID int64) (int64, error)
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) (int64, error)
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `id, user_id, title, description, deadline, tags, estimated_minutes,
	importance, urgency, reason, priority_score, status, created_at`

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, deadline, tags, estimated_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + taskColumns
	row := r.db.QueryRow(ctx, query,
		t.UserID, t.Title, t.Description, t.Deadline, dom.JoinTags(t.Tags), t.EstimatedMinutes, t.Status)
	return scanTask(row)
}

func (r *PGTaskRepo) UpdateAnalysis(ctx context.Context, id int64, importance, urgency int, reason string, priorityScore float64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE tasks SET importance = $2, urgency = $3, reason = $4, priority_score = $5 WHERE id = $1`,
		id, importance, urgency, reason, priorityScore)
	return err
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND id = $2`
	return scanTask(r.db.QueryRow(ctx, query, userID, id))
}

func (r *PGTaskRepo) SetStatus(ctx context.Context, userID, id int64, status dom.Status) (bool, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE tasks SET status = $3 WHERE user_id = $1 AND id = $2`, userID, id, status)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGTaskRepo) UpdateDeadline(ctx context.Context, userID, id int64, deadline string) (bool, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE tasks SET deadline = $3 WHERE user_id = $1 AND id = $2`, userID, id, deadline)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGTaskRepo) List(ctx context.Context, userID int64, filter dom.Filter, limit, offset int) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	switch filter {
	case dom.FilterDone:
		query += ` AND status = 'done'`
	case dom.FilterActive:
		query += ` AND status <> 'done'`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *PGTaskRepo) ListIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (r *PGTaskRepo) TopByPriority(ctx context.Context, userID int64, limit int) ([]dom.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND status <> 'done'
		ORDER BY COALESCE(priority_score, 0) DESC, created_at DESC, id DESC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *PGTaskRepo) DueOrHighPriority(ctx context.Context, userID int64, today string, threshold float64, limit int) ([]dom.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND status <> 'done'
		  AND (deadline = $2 OR COALESCE(priority_score, 0) >= $3)
		ORDER BY COALESCE(priority_score, 0) DESC, created_at DESC, id DESC
		LIMIT $4`
	rows, err := r.db.Query(ctx, query, userID, today, threshold, limit)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *PGTaskRepo) Search(ctx context.Context, userID int64, q string, limit int) ([]dom.Task, error) {
	pattern := "%" + q + "%"
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		  AND (title ILIKE $2 OR COALESCE(description, '') ILIKE $2 OR COALESCE(tags, '') ILIKE $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`
	rows, err := r.db.Query(ctx, query, userID, pattern, limit)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *PGTaskRepo) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *PGTaskRepo) DeleteByIDs(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanTask(row pgx.Row) (dom.Task, error) {
	var t dom.Task
	var tags *string
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Deadline, &tags,
		&t.EstimatedMinutes, &t.Importance, &t.Urgency, &t.Reason, &t.PriorityScore,
		&t.Status, &t.CreatedAt)
	if err != nil {
		return dom.Task{}, err
	}
	t.Tags = dom.SplitTags(tags)
	return t, nil
}

func collectTasks(rows pgx.Rows) ([]dom.Task, error) {
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func collectIDs(rows pgx.Rows) ([]int64, error) {
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
