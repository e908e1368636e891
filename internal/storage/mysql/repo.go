package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"guest_reviews/internal/adapters/observability"
)

// Repo stores the approved review ids in the approved_reviews table.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createApprovedSQL); err != nil {
		return fmt.Errorf("create approved_reviews: %w", err)
	}
	return nil
}

func (r *Repo) Members(ctx context.Context) (ids []string, err error) {
	defer func() { observability.ObserveStore("mysql", "members", err) }()

	rows, err := r.db.QueryContext(ctx, selectApprovedSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repo) Add(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, insertApprovedSQL, id)
	observability.ObserveStore("mysql", "add", err)
	return err
}

func (r *Repo) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteApprovedSQL, id)
	observability.ObserveStore("mysql", "remove", err)
	return err
}
