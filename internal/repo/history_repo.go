package repo

import (
	"context"

	dom "jotbot/internal/domain"
	"jotbot/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepo persists the per-user capture log. Append also trims the log
// so only the newest keep entries survive.
type HistoryRepo interface {
	Append(ctx context.Context, userID int64, text string, keep int) error
	Recent(ctx context.Context, userID int64, limit int) ([]dom.HistoryMessage, error)
}

type PGHistoryRepo struct {
	db *pgxpool.Pool
}

func NewPGHistoryRepo(db *pgxpool.Pool) *PGHistoryRepo {
	return &PGHistoryRepo{db: db}
}

// Append inserts text with the next per-user seq and drops entries older
// than the keep window, all in one transaction. Two concurrent appends for
// the same user can race on the seq; the loser retries once.
func (r *PGHistoryRepo) Append(ctx context.Context, userID int64, text string, keep int) error {
	if keep < 1 {
		keep = 1
	}
	err := r.appendOnce(ctx, userID, text, keep)
	if utils.IsPGUniqueViolation(err) {
		err = r.appendOnce(ctx, userID, text, keep)
	}
	return err
}

func (r *PGHistoryRepo) appendOnce(ctx context.Context, userID int64, text string, keep int) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO history (user_id, seq, text)
			VALUES ($1, (SELECT COALESCE(MAX(seq), 0) + 1 FROM history WHERE user_id = $1), $2)`,
			userID, text)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			DELETE FROM history
			WHERE user_id = $1
			  AND seq <= (SELECT MAX(seq) FROM history WHERE user_id = $1) - $2`,
			userID, keep)
		return err
	})
}

// Recent returns the last limit entries, oldest first.
func (r *PGHistoryRepo) Recent(ctx context.Context, userID int64, limit int) ([]dom.HistoryMessage, error) {
	query := `
		SELECT id, user_id, seq, text, created_at FROM (
			SELECT id, user_id, seq, text, created_at
			FROM history WHERE user_id = $1
			ORDER BY seq DESC LIMIT $2
		) last
		ORDER BY seq ASC`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.HistoryMessage
	for rows.Next() {
		var m dom.HistoryMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Seq, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
