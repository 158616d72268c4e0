package auth

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface auth components need. Any
// structured logger with message + key/value pairs fits, including
// go-logger instances.
type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
}

// Identity holds the attributes of an authenticated identity.
type Identity interface {
	ID() string
	Email() string
	Name() string
}

// Authenticator holds methods to deal with authentication.
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, error)
	ClaimsFromToken(token string) (AuthClaims, error)
	IdentityFromClaims(ctx context.Context, claims AuthClaims) (Identity, error)
}

// Config holds auth options. The signing secret is process-wide
// configuration, loaded once at startup and injected here; rotating it
// requires a restart and invalidates outstanding tokens.
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
}

// IdentityProvider ensures we have a store to retrieve auth identities.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords.
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(message string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(message), args...)
}

func (d defLogger) Warn(message string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(message), args...)
}

func (d defLogger) Info(message string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(message), args...)
}

func (d defLogger) Debug(message string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(message), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
