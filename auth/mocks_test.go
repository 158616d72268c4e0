package auth_test

import (
	"context"
	"database/sql"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/socialbase/socialbase/auth"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockUsers overrides the repository methods the auth flows touch. The
// embedded interface satisfies the rest of the surface; calling an
// unmocked method panics, which is what we want in tests.
type MockUsers struct {
	mock.Mock
	auth.Users
}

var _ auth.Users = (*MockUsers)(nil)

func (m *MockUsers) GetByIdentifier(ctx context.Context, identifier string, _ ...repository.SelectCriteria) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, _ ...repository.SelectCriteria) (*auth.User, error) {
	args := m.Called(ctx, tx, identifier)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	record, _ := args.Get(0).(*auth.User)
	return record, args.Error(1)
}

// RegisterTx echoes the input record when the test does not configure
// an explicit return, matching what the real repository does.
func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, tx, user)
	record, _ := args.Get(0).(*auth.User)
	if record == nil && args.Error(1) == nil {
		record = user
	}
	return record, args.Error(1)
}

func (m *MockUsers) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsers) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *auth.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

// MockRepositoryManager implements auth.RepositoryManager.
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

// RunInTx executes the callback with a zero transaction handle so the
// repositories inside see the mocked calls; a configured error short
// circuits instead.
func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if err := args.Error(0); err != nil {
		return err
	}
	return f(ctx, bun.Tx{})
}

func (m *MockRepositoryManager) Users() auth.Users {
	args := m.Called()
	return args.Get(0).(auth.Users)
}

// MockUserStore implements auth.UserStore.
type MockUserStore struct {
	mock.Mock
}

var _ auth.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) GetByIdentifier(ctx context.Context, identifier string, _ ...repository.SelectCriteria) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockIdentityProvider implements auth.IdentityProvider.
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	args := m.Called(ctx, identifier)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

// testConfig implements auth.Config with defaults for tests.
type testConfig struct {
	signingKey string
	expiration int
}

func (c testConfig) GetSigningKey() string {
	if c.signingKey == "" {
		return "test-signing-key"
	}
	return c.signingKey
}

func (c testConfig) GetTokenExpiration() int {
	if c.expiration == 0 {
		return 1
	}
	return c.expiration
}

func (c testConfig) GetIssuer() string      { return "test-issuer" }
func (c testConfig) GetAudience() []string  { return []string{"test-audience"} }
func (c testConfig) GetContextKey() string  { return "user" }
func (c testConfig) GetTokenLookup() string { return "header:Authorization" }
func (c testConfig) GetAuthScheme() string  { return "Bearer" }
