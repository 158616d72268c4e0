// Package jwtware gates fiber routes on bearer tokens. The hard gate
// rejects unauthenticated requests outright; the soft gate lets them
// through carrying an authenticated flag the handler can consult.
package jwtware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	defaultTokenLookup       = "header:" + fiber.HeaderAuthorization
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// TokenValidator validates raw tokens. It mirrors TokenService.Validate
// from the auth package without creating an import cycle.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims is the verified-claims surface the gate stores for
// handlers. It mirrors the auth package's AuthClaims.
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
}

type Config struct {
	// Filter skips the gate entirely when it returns true.
	Filter func(*fiber.Ctx) bool

	// SuccessHandler runs after claims have been stored. Defaults to
	// passing the request along.
	SuccessHandler fiber.Handler

	// ErrorHandler renders gate failures. The default responds 401 for
	// every failure mode, missing and malformed tokens included, so
	// clients cannot probe which check tripped.
	ErrorHandler fiber.ErrorHandler

	// TokenValidator is required.
	TokenValidator TokenValidator

	// ContextKey is the Locals key holding the verified claims.
	ContextKey string

	// StateKey is the Locals key holding the authenticated flag. The
	// soft gate always sets it; the hard gate sets it only on success.
	StateKey string

	// TokenLookup chains extraction sources, e.g.
	// "header:Authorization,query:auth_token,cookie:jwt".
	TokenLookup string

	// AuthScheme strips the scheme prefix on header extraction.
	AuthScheme string

	// Optional turns the gate soft: failures mark the request
	// unauthenticated and pass it through instead of rejecting it.
	Optional bool

	// ContextEnricher propagates claims into the request's standard
	// context after successful validation.
	ContextEnricher func(ctx context.Context, claims AuthClaims) context.Context
}

// New builds the gate middleware from the given config.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	extractors := cfg.getExtractors()

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := ExtractRawToken(c, extractors)
		if err == nil {
			var claims AuthClaims
			if claims, err = cfg.TokenValidator.Validate(raw); err == nil {
				c.Locals(cfg.ContextKey, claims)
				c.Locals(cfg.StateKey, true)

				if cfg.ContextEnricher != nil {
					c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
				}

				return cfg.SuccessHandler(c)
			}
		}

		if cfg.Optional {
			c.Locals(cfg.StateKey, false)
			return c.Next()
		}

		return cfg.ErrorHandler(c, err)
	}
}

// GetDefaultConfig fills in the optional pieces of a Config.
func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenValidator == nil {
		panic("jwtware: TokenValidator is required")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "not authenticated",
			})
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.StateKey == "" {
		cfg.StateKey = "is_authenticated"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// ClaimsFromContext returns the claims the gate stored, if any.
func ClaimsFromContext(c *fiber.Ctx, contextKey string) (AuthClaims, bool) {
	claims, ok := c.Locals(contextKey).(AuthClaims)
	return claims, ok
}

// IsAuthenticated reports the flag the gate stored under stateKey.
func IsAuthenticated(c *fiber.Ctx, stateKey string) bool {
	flag, ok := c.Locals(stateKey).(bool)
	return ok && flag
}

// ExtractRawToken runs the extractor chain until one yields a token.
func ExtractRawToken(c *fiber.Ctx, extractors []JWTExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(c)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// GetExtractors parses a token lookup chain into extractor functions.
func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:jwt,query:auth_token,param:token
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) < 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, jwtFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, jwtFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(parts[1]))
		}
	}

	return extractors
}

type JWTExtractor func(c *fiber.Ctx) (string, error)

// jwtFromHeader returns a function that extracts a token from the request header.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		a := c.Get(header)
		l := len(authScheme)
		if l == 0 {
			return "", ErrJWTMissingOrMalformed
		}
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// jwtFromQuery returns a function that extracts a token from the query string.
func jwtFromQuery(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromParam returns a function that extracts a token from a route param.
func jwtFromParam(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Params(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromCookie returns a function that extracts a token from the named cookie.
func jwtFromCookie(name string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}
