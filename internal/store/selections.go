package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"valentine/internal/model"
)

// RecordSelection appends a committed dropdown value. A zero CommittedAt is
// replaced by the current time.
func (s Store) RecordSelection(ctx context.Context, sel model.Selection) error {
	id := strings.TrimSpace(sel.ContainerID)
	if id == "" {
		return errors.New("selection: missing container id")
	}
	at := sel.CommittedAt
	if at.IsZero() {
		at = time.Now()
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO selections(container_id, value, committed_at_unixms) VALUES(?, ?, ?)`,
			id, sel.Value, at.UnixMilli())
		return err
	})
}

// ListSelections returns recorded selections, newest first. An empty
// containerID lists every container; limit <= 0 means no limit.
func (s Store) ListSelections(ctx context.Context, containerID string, limit int) ([]model.Selection, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT container_id, value, committed_at_unixms FROM selections`
	var args []any
	if id := strings.TrimSpace(containerID); id != "" {
		q += ` WHERE container_id = ?`
		args = append(args, id)
	}
	q += ` ORDER BY committed_at_unixms DESC, id DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Selection{}
	for rows.Next() {
		var sel model.Selection
		var ms int64
		if err := rows.Scan(&sel.ContainerID, &sel.Value, &ms); err != nil {
			return nil, err
		}
		sel.CommittedAt = time.UnixMilli(ms).UTC()
		out = append(out, sel)
	}
	return out, rows.Err()
}

// LatestSelections maps each container id to its most recent value.
func (s Store) LatestSelections(ctx context.Context) (map[string]string, error) {
	all, err := s.ListSelections(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, sel := range all {
		if _, ok := out[sel.ContainerID]; !ok {
			out[sel.ContainerID] = sel.Value
		}
	}
	return out, nil
}
