package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/uchiverify/uchiverify/internal/data/pgxutil"
	domainverify "github.com/uchiverify/uchiverify/internal/domain/verify"
	apperrors "github.com/uchiverify/uchiverify/internal/errors"
	"github.com/uchiverify/uchiverify/internal/service"
)

// VerificationRepo persists the audit trail of completed verifications.
type VerificationRepo struct {
	DB *sql.DB
}

var _ service.VerificationRecorder = (*VerificationRepo)(nil)

// NewVerificationRepo creates a new VerificationRepo instance with the given database connection.
func NewVerificationRepo(db *sql.DB) *VerificationRepo {
	return &VerificationRepo{DB: db}
}

// Record appends one verification row. Members may verify more than
// once, so there is no uniqueness beyond the row id.
func (r *VerificationRepo) Record(ctx context.Context, rec domainverify.Verification) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO verifications (id, guild_id, user_id, email_domain, role_granted, verified_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.ID, rec.GuildID, rec.UserID, rec.EmailDomain, rec.RoleGranted, rec.VerifiedAt)
		return err
	})
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("record verification: %w", err))
	}
	return nil
}

// Count returns the total number of recorded verifications.
func (r *VerificationRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM verifications`).Scan(&count)
	if err != nil {
		return 0, apperrors.MapDBError(fmt.Errorf("count verifications: %w", err))
	}
	return count, nil
}

// CountFailedGrants returns how many verifications completed without a
// role grant, the signal operators watch for.
func (r *VerificationRepo) CountFailedGrants(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM verifications WHERE role_granted = false`).Scan(&count)
	if err != nil {
		return 0, apperrors.MapDBError(fmt.Errorf("count failed grants: %w", err))
	}
	return count, nil
}
