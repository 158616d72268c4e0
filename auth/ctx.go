package auth

import "context"

type contextKey string

const (
	claimsContextKey contextKey = "auth:claims"
	userContextKey   contextKey = "auth:user"
)

// WithClaimsContext stores verified token claims in the context.
func WithClaimsContext(ctx context.Context, claims *JWTClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// GetClaims retrieves claims previously stored by the auth middleware.
func GetClaims(ctx context.Context) (*JWTClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*JWTClaims)
	return claims, ok
}

// WithContext stores the resolved user in the context.
func WithContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext retrieves the user stored by WithContext.
func FromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}
