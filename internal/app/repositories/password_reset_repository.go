package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courseport/courseport/internal/pkg/apperrors"
)

// PasswordResetRepository manages password reset OTP codes. Codes are
// 6-digit, time-windowed and single use.
type PasswordResetRepository struct {
	db *pgxpool.Pool
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(db *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{
		db: db,
	}
}

// CreateCode stores a new OTP for a user, replacing any previous codes
func (r *PasswordResetRepository) CreateCode(ctx context.Context, userID int64, code string, expiryDate time.Time) error {
	// One live code per user; older codes are superseded.
	_, err := r.db.Exec(ctx, `DELETE FROM password_reset_otps WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("error clearing previous reset codes: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO password_reset_otps (user_id, code, expiry_date)
		VALUES ($1, $2, $3)`,
		userID, code, expiryDate)
	if err != nil {
		return fmt.Errorf("error creating password reset code: %w", err)
	}

	return nil
}

// GetCodeInfo retrieves expiry and used state for a user's OTP
func (r *PasswordResetRepository) GetCodeInfo(ctx context.Context, userID int64, code string) (time.Time, bool, error) {
	var expiryDate time.Time
	var used bool

	err := r.db.QueryRow(ctx, `
		SELECT expiry_date, used
		FROM password_reset_otps
		WHERE user_id = $1 AND code = $2`,
		userID, code).Scan(&expiryDate, &used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, apperrors.ErrInvalidResetCode
		}
		return time.Time{}, false, fmt.Errorf("error retrieving password reset code: %w", err)
	}

	return expiryDate, used, nil
}

// MarkCodeAsUsed marks an OTP as consumed to prevent reuse
func (r *PasswordResetRepository) MarkCodeAsUsed(ctx context.Context, userID int64, code string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE password_reset_otps
		SET used = true
		WHERE user_id = $1 AND code = $2`,
		userID, code)
	if err != nil {
		return fmt.Errorf("error marking reset code as used: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvalidResetCode
	}
	return nil
}

// DeleteExpiredCodes removes expired and consumed codes
func (r *PasswordResetRepository) DeleteExpiredCodes(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM password_reset_otps
		WHERE expiry_date < $1 OR used = true`,
		time.Now())
	if err != nil {
		return 0, fmt.Errorf("error deleting expired reset codes: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
