// Package data contains the Postgres repositories.
package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/uchiverify/uchiverify/internal/data/pgxutil"
	apperrors "github.com/uchiverify/uchiverify/internal/errors"
	"github.com/uchiverify/uchiverify/internal/service"
)

// StatsRepo persists per-command usage counters.
type StatsRepo struct {
	DB *sql.DB
}

var _ service.StatsRepository = (*StatsRepo)(nil)

// NewStatsRepo creates a new StatsRepo instance with the given database connection.
func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{DB: db}
}

// Increment bumps the counter for a command, creating the row on first use.
func (r *StatsRepo) Increment(ctx context.Context, command string) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO command_stats (command, count, updated_at)
			VALUES ($1, 1, now())
			ON CONFLICT (command)
			DO UPDATE SET count = command_stats.count + 1, updated_at = now()`,
			command)
		return err
	})
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("increment command stat: %w", err))
	}
	return nil
}

// Snapshot returns all counters ordered by count descending.
func (r *StatsRepo) Snapshot(ctx context.Context) ([]service.CommandCount, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT command, count
		FROM command_stats
		ORDER BY count DESC, command ASC`)
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("query command stats: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var counts []service.CommandCount
	for rows.Next() {
		var cc service.CommandCount
		if err := rows.Scan(&cc.Command, &cc.Count); err != nil {
			return nil, apperrors.MapDBError(fmt.Errorf("scan command stat: %w", err))
		}
		counts = append(counts, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("iterate command stats: %w", err))
	}
	return counts, nil
}
