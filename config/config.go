// Package config defines the application configuration tree loaded by
// go-config. Defaults cover local development; deployments override
// through config files or environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
)

type BaseConfig struct {
	Server      Server      `json:"server"`
	Auth        Auth        `json:"auth"`
	Persistence Persistence `json:"persistence"`
	Uploads     Uploads     `json:"uploads"`
	Feed        Feed        `json:"feed"`
}

type Server struct {
	Address string `json:"address"`
}

type Auth struct {
	SigningKey      string   `json:"signing_key"`
	TokenExpiration int      `json:"token_expiration"`
	Issuer          string   `json:"issuer"`
	Audience        []string `json:"audience"`
	ContextKey      string   `json:"context_key"`
	TokenLookup     string   `json:"token_lookup"`
	AuthScheme      string   `json:"auth_scheme"`
}

type Persistence struct {
	Driver                string `json:"driver"`
	DSN                   string `json:"dsn"`
	PingTimeoutExpression string `json:"ping_timeout"`
}

type Uploads struct {
	Dir string `json:"dir"`
}

type Feed struct {
	PerPage int `json:"per_page"`
}

// Validate fills defaults and rejects configurations the app cannot
// run with. The signing key has no default: a process without one must
// not mint tokens.
func (a *BaseConfig) Validate() error {
	if a.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required", errors.CategoryValidation)
	}

	if a.Auth.TokenExpiration == 0 {
		a.Auth.TokenExpiration = 1
	}

	if a.Auth.TokenLookup == "" {
		a.Auth.TokenLookup = "header:Authorization"
	}

	if a.Auth.AuthScheme == "" {
		a.Auth.AuthScheme = "Bearer"
	}

	if a.Auth.ContextKey == "" {
		a.Auth.ContextKey = "user"
	}

	if a.Server.Address == "" {
		a.Server.Address = ":8080"
	}

	if a.Persistence.Driver == "" {
		a.Persistence.Driver = "sqlite"
	}

	if a.Persistence.DSN == "" {
		a.Persistence.DSN = "file:socialbase.db?cache=shared"
	}

	if a.Persistence.PingTimeoutExpression == "" {
		a.Persistence.PingTimeoutExpression = "5s"
	}

	if a.Uploads.Dir == "" {
		a.Uploads.Dir = "images"
	}

	if a.Feed.PerPage < 1 {
		a.Feed.PerPage = 2
	}

	return nil
}

func (a *BaseConfig) GetServer() Server           { return a.Server }
func (a *BaseConfig) GetAuth() Auth               { return a.Auth }
func (a *BaseConfig) GetPersistence() Persistence { return a.Persistence }
func (a *BaseConfig) GetUploads() Uploads         { return a.Uploads }
func (a *BaseConfig) GetFeed() Feed               { return a.Feed }

func (s Server) GetAddress() string { return s.Address }

// Auth satisfies the auth package's Config interface.
func (a Auth) GetSigningKey() string   { return a.SigningKey }
func (a Auth) GetTokenExpiration() int { return a.TokenExpiration }
func (a Auth) GetIssuer() string       { return a.Issuer }
func (a Auth) GetAudience() []string   { return a.Audience }
func (a Auth) GetContextKey() string   { return a.ContextKey }
func (a Auth) GetTokenLookup() string  { return a.TokenLookup }
func (a Auth) GetAuthScheme() string   { return a.AuthScheme }

func (p Persistence) GetDriver() string { return p.Driver }
func (p Persistence) GetDSN() string    { return p.DSN }

// The remaining persistence.Config accessors have no corresponding
// configuration knobs; zero values keep the library's hooks disabled.
func (p Persistence) GetDebug() bool            { return false }
func (p Persistence) GetServer() string         { return p.DSN }
func (p Persistence) GetOtelIdentifier() string { return "" }

func (p Persistence) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}

func (u Uploads) GetDir() string { return u.Dir }

func (f Feed) GetPerPage() int { return f.PerPage }
