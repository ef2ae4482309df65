package identity

import (
	"context"
	"sync"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

var _ authClient = &authClientMock{}

// authClientMock is a function-field mock of the auth service client.
// Unset methods panic when called so tests fail loudly on unexpected calls.
type authClientMock struct {
	SignInAnonymouslyFunc     func(ctx context.Context) (*domain.Session, error)
	SignUpFunc                func(ctx context.Context, email, password string) (*domain.Session, error)
	SignInWithPasswordFunc    func(ctx context.Context, email, password string) (*domain.Session, error)
	RefreshFunc               func(ctx context.Context, refreshToken string) (*domain.Session, error)
	GetUserFunc               func(ctx context.Context, accessToken string) (*domain.Identity, error)
	SignOutFunc               func(ctx context.Context, accessToken string) error
	OAuthURLFunc              func(provider string) (string, error)
	ResetPasswordForEmailFunc func(ctx context.Context, email string) error
	UpdatePasswordFunc        func(ctx context.Context, accessToken, newPassword string) (*domain.Identity, error)
}

func (m *authClientMock) SignInAnonymously(ctx context.Context) (*domain.Session, error) {
	if m.SignInAnonymouslyFunc == nil {
		panic("authClientMock.SignInAnonymouslyFunc is nil")
	}
	return m.SignInAnonymouslyFunc(ctx)
}

func (m *authClientMock) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	if m.SignUpFunc == nil {
		panic("authClientMock.SignUpFunc is nil")
	}
	return m.SignUpFunc(ctx, email, password)
}

func (m *authClientMock) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	if m.SignInWithPasswordFunc == nil {
		panic("authClientMock.SignInWithPasswordFunc is nil")
	}
	return m.SignInWithPasswordFunc(ctx, email, password)
}

func (m *authClientMock) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if m.RefreshFunc == nil {
		panic("authClientMock.RefreshFunc is nil")
	}
	return m.RefreshFunc(ctx, refreshToken)
}

func (m *authClientMock) GetUser(ctx context.Context, accessToken string) (*domain.Identity, error) {
	if m.GetUserFunc == nil {
		panic("authClientMock.GetUserFunc is nil")
	}
	return m.GetUserFunc(ctx, accessToken)
}

func (m *authClientMock) SignOut(ctx context.Context, accessToken string) error {
	if m.SignOutFunc == nil {
		panic("authClientMock.SignOutFunc is nil")
	}
	return m.SignOutFunc(ctx, accessToken)
}

func (m *authClientMock) OAuthURL(provider string) (string, error) {
	if m.OAuthURLFunc == nil {
		panic("authClientMock.OAuthURLFunc is nil")
	}
	return m.OAuthURLFunc(provider)
}

func (m *authClientMock) ResetPasswordForEmail(ctx context.Context, email string) error {
	if m.ResetPasswordForEmailFunc == nil {
		panic("authClientMock.ResetPasswordForEmailFunc is nil")
	}
	return m.ResetPasswordForEmailFunc(ctx, email)
}

func (m *authClientMock) UpdatePassword(ctx context.Context, accessToken, newPassword string) (*domain.Identity, error) {
	if m.UpdatePasswordFunc == nil {
		panic("authClientMock.UpdatePasswordFunc is nil")
	}
	return m.UpdatePasswordFunc(ctx, accessToken, newPassword)
}

var _ localStore = &localStoreMock{}

// localStoreMock is an in-memory stand-in for the device key-value store.
type localStoreMock struct {
	mu   sync.Mutex
	data map[string]string
}

func newLocalStoreMock() *localStoreMock {
	return &localStoreMock{data: make(map[string]string)}
}

func (m *localStoreMock) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *localStoreMock) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *localStoreMock) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
