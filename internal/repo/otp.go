package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// otpRepo serves either the mobile or the email OTP table; both share one
// shape and one set of rules.
type otpRepo struct {
	db    *sqlx.DB
	qb    sq.StatementBuilderType
	table string
}

func NewOTPRepo(db *sqlx.DB, table string) *otpRepo {
	return &otpRepo{
		db:    db,
		qb:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		table: table,
	}
}

func (r *otpRepo) Create(ctx context.Context, identity, code string, expiresAt time.Time) error {
	query, args := r.qb.Insert(r.table).
		Columns("identity", "code", "expires_at").
		Values(identity, code, expiresAt).
		MustSql()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}
	return nil
}

// Latest returns the most recently created row for the identity. Older rows
// are superseded and must never validate, even with a matching code.
func (r *otpRepo) Latest(ctx context.Context, identity string) (entities.OTP, error) {
	query, args := r.qb.Select("id", "identity", "code", "expires_at", "created_at").
		From(r.table).
		Where(sq.Eq{"identity": identity}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		MustSql()

	var row OTP
	err := r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.OTP{}, entities.ErrOTPInvalid
	}
	if err != nil {
		return entities.OTP{}, fmt.Errorf("failed to get otp: %w", err)
	}
	return OTPToEntity(row), nil
}

// DeleteForIdentity consumes all codes for the identity. Called only by the
// action the OTP gated (registration, password reset); verification alone
// does not consume.
func (r *otpRepo) DeleteForIdentity(ctx context.Context, identity string) error {
	query, args := r.qb.Delete(r.table).
		Where(sq.Eq{"identity": identity}).
		MustSql()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete otps: %w", err)
	}
	return nil
}
