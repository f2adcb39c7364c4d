package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"cibn-digital-library/internal/models"
	"cibn-digital-library/internal/utils"
)

// ErrInvalidCredentials is returned for a wrong password and for an
// unknown or inactive member alike; callers cannot tell the cases
// apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// MemberRepository reads the external Members table. The schema is
// owned by membership administration; this repository only looks rows
// up, verifies passwords and stamps LastLogin.
type MemberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a member repository over the CIBN
// database handle.
func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = `MemberId, Surname, FirstName, Email, Phone,
		Arrears, AnnualSub, Category, IsActive, LastLogin, PasswordHash`

// Authenticate verifies memberID/password against the Members table.
// Only active members can authenticate. On success the member's
// LastLogin is stamped; a failed stamp is logged and does not fail the
// login.
func (r *MemberRepository) Authenticate(ctx context.Context, memberID, password string) (*models.CIBNMember, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM Members
		WHERE MemberId = @p1 AND IsActive = 1`, memberColumns)

	member, err := r.scanMember(r.db.QueryRowContext(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up member %s: %w", memberID, err)
	}

	ok, err := utils.VerifyPassword(password, member.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := r.UpdateLastLogin(ctx, memberID); err != nil {
		slog.Warn("failed to update last login", "member_id", memberID, "error", err)
	}

	return member, nil
}

// GetByID returns a member regardless of active status.
func (r *MemberRepository) GetByID(ctx context.Context, memberID string) (*models.CIBNMember, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM Members
		WHERE MemberId = @p1`, memberColumns)

	member, err := r.scanMember(r.db.QueryRowContext(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("member %s not found", memberID)
		}
		return nil, fmt.Errorf("failed to get member %s: %w", memberID, err)
	}
	return member, nil
}

// UpdateLastLogin stamps the member's LastLogin with the database
// clock.
func (r *MemberRepository) UpdateLastLogin(ctx context.Context, memberID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE Members SET LastLogin = GETDATE() WHERE MemberId = @p1`, memberID)
	if err != nil {
		return fmt.Errorf("failed to update last login for %s: %w", memberID, err)
	}
	return nil
}

// Create inserts a member row. Only the seed tooling uses this; the
// production table is populated by membership administration.
func (r *MemberRepository) Create(ctx context.Context, member *models.CIBNMember, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO Members (MemberId, Surname, FirstName, Email, Phone, Arrears, AnnualSub, Category, IsActive, PasswordHash)
		VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10)`,
		member.MemberID, member.Surname, member.FirstName, member.Email, member.Phone,
		member.Arrears, member.AnnualSub, member.Category, member.IsActive, hash)
	if err != nil {
		return fmt.Errorf("failed to create member %s: %w", member.MemberID, err)
	}
	return nil
}

func (r *MemberRepository) scanMember(row *sql.Row) (*models.CIBNMember, error) {
	member := &models.CIBNMember{}
	var email, phone sql.NullString
	var lastLogin sql.NullTime

	err := row.Scan(
		&member.MemberID,
		&member.Surname,
		&member.FirstName,
		&email,
		&phone,
		&member.Arrears,
		&member.AnnualSub,
		&member.Category,
		&member.IsActive,
		&lastLogin,
		&member.PasswordHash,
	)
	if err != nil {
		return nil, err
	}

	member.Email = email.String
	member.Phone = phone.String
	if lastLogin.Valid {
		t := lastLogin.Time
		member.LastLogin = &t
	}
	return member, nil
}
