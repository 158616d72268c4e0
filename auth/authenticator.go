package auth

import (
	"context"
	"reflect"

	"github.com/golang-jwt/jwt/v5"
)

// Auther orchestrates credential verification and token issuance.
type Auther struct {
	provider        IdentityProvider
	tokenService    TokenService
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        jwt.ClaimStrings
	logger          Logger
}

// NewAuthenticator returns a new Authenticator backed by the given
// identity provider and configuration.
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	signingKey := []byte(opts.GetSigningKey())
	audience := jwt.ClaimStrings(opts.GetAudience())

	tokenService := NewTokenService(
		signingKey,
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		audience,
		defLogger{},
	)

	return &Auther{
		provider:        provider,
		tokenService:    tokenService,
		signingKey:      signingKey,
		tokenExpiration: opts.GetTokenExpiration(),
		issuer:          opts.GetIssuer(),
		audience:        audience,
		logger:          defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	// the inner TokenService carries its own logger reference
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the identifier/password pair and mints a bearer token
// for the resolved identity.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", ErrIdentityNotFound
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation failed", "error", err)
		return "", err
	}

	return token, nil
}

// ClaimsFromToken validates a raw token and returns its claims.
func (s *Auther) ClaimsFromToken(raw string) (AuthClaims, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("ClaimsFromToken validation failed", "error", err)
		return nil, err
	}
	return claims, nil
}

// IdentityFromClaims re-fetches the live identity record behind a set
// of verified claims. The gate itself trusts claims as-is; callers that
// need a live record use this and handle absence.
func (s *Auther) IdentityFromClaims(ctx context.Context, claims AuthClaims) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, claims.UserID())
	if err != nil {
		s.logger.Error("IdentityFromClaims lookup failed", "error", err)
		return nil, err
	}
	return identity, nil
}

var _ Authenticator = (*Auther)(nil)
