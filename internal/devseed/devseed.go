// Package devseed populates sample data for local development so the
// admin dashboard and the stats endpoint have something to show.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/uchiverify/uchiverify/internal/data"
	domainverify "github.com/uchiverify/uchiverify/internal/domain/verify"
)

const seedGuildID = "100000000000000001"

// Run seeds sample verifications and command counters. It is a no-op
// when the audit table already has rows, so restarting a dev instance
// does not accumulate data.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	verifications := data.NewVerificationRepo(db)

	existing, err := verifications.Count(ctx)
	if err != nil {
		return fmt.Errorf("check existing verifications: %w", err)
	}
	if existing > 0 {
		logger.Info("dev seed skipped, data already present", "verifications", existing)
		return nil
	}

	now := time.Now().UTC()
	rows := []domainverify.Verification{
		{UserID: "200000000000000001", EmailDomain: "uchicago.edu", RoleGranted: true},
		{UserID: "200000000000000002", EmailDomain: "uchicago.edu", RoleGranted: true},
		{UserID: "200000000000000003", EmailDomain: "cs.uchicago.edu", RoleGranted: false},
	}
	for i, row := range rows {
		row.ID = uuid.NewString()
		row.GuildID = seedGuildID
		row.VerifiedAt = now.Add(-time.Duration(i) * time.Hour)
		if err := verifications.Record(ctx, row); err != nil {
			return fmt.Errorf("seed verification: %w", err)
		}
	}

	stats := data.NewStatsRepo(db)
	counts := map[string]int{
		"verify":        3,
		"scav":          5,
		"shadydealer":   4,
		"daysinquarter": 2,
		"thingstodo":    1,
	}
	for command, n := range counts {
		for range n {
			if err := stats.Increment(ctx, command); err != nil {
				return fmt.Errorf("seed command stat %q: %w", command, err)
			}
		}
	}

	logger.Info("dev seed complete", "verifications", len(rows), "commands", len(counts))
	return nil
}
