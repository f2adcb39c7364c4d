package services

import (
	"context"
	"fmt"

	"cibn-digital-library/internal/models"
)

// MemberRepository is the slice of the member store the auth service
// needs. Kept as an interface so tests can substitute a fake.
type MemberRepository interface {
	Authenticate(ctx context.Context, memberID, password string) (*models.CIBNMember, error)
	GetByID(ctx context.Context, memberID string) (*models.CIBNMember, error)
}

// AuthService handles CIBN member authentication and token issuance.
type AuthService struct {
	members MemberRepository
	tokens  *TokenService
}

// NewAuthService creates an auth service over the member repository.
func NewAuthService(members MemberRepository, tokens *TokenService) *AuthService {
	return &AuthService{members: members, tokens: tokens}
}

// LoginResult carries the outcome of a successful member login. The
// member's password hash never leaves the repository layer.
type LoginResult struct {
	Token  string             `json:"token"`
	Member *models.CIBNMember `json:"user"`
}

// Login authenticates a member and issues an access token with the
// cibn_member role.
func (s *AuthService) Login(ctx context.Context, memberID, password string) (*LoginResult, error) {
	member, err := s.members.Authenticate(ctx, memberID, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(member.MemberID, member.Email, models.RoleCIBNMember, member.FullName())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	member.PasswordHash = ""
	return &LoginResult{Token: token, Member: member}, nil
}

// CurrentMember resolves the member behind a set of verified claims.
func (s *AuthService) CurrentMember(ctx context.Context, claims *Claims) (*models.CIBNMember, error) {
	member, err := s.members.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	member.PasswordHash = ""
	return member, nil
}
