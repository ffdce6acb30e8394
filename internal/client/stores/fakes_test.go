package stores

import (
	"context"
	"errors"
	"sync"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/models"
)

// fakeAuth accepts one email/password pair and issues tokens of the form
// "token-<email>".
type fakeAuth struct {
	mu       sync.Mutex
	email    string
	password string
	user     models.User
	meErr    error
	meCalls  int
	meBlock  chan struct{}
	refresh  string

	refreshCalls int
	refreshBlock chan struct{}
}

func (f *fakeAuth) Login(_ context.Context, creds models.LoginCredentials) (*models.AuthResponse, error) {
	if creds.Email != f.email || creds.Password != f.password {
		return nil, &client.Error{Kind: client.KindUnauthorized, Status: 401, Detail: "Incorrect email or password"}
	}
	return &models.AuthResponse{AccessToken: "token-" + creds.Email, User: f.user}, nil
}

func (f *fakeAuth) Signup(_ context.Context, data models.SignupData) (*models.AuthResponse, error) {
	if data.Email == f.email {
		return nil, &client.Error{Kind: client.KindValidation, Status: 400, Detail: "Email already registered"}
	}
	return &models.AuthResponse{AccessToken: "token-" + data.Email, User: models.User{ID: 99, Email: data.Email}}, nil
}

func (f *fakeAuth) Me(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	f.meCalls++
	block, err := f.meBlock, f.meErr
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	u := f.user
	return &u, nil
}

func (f *fakeAuth) Refresh(ctx context.Context) (*models.TokenResponse, error) {
	f.mu.Lock()
	f.refreshCalls++
	block := f.refreshBlock
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.refresh == "" {
		return nil, &client.Error{Kind: client.KindUnauthorized, Status: 401, Detail: "Could not validate credentials"}
	}
	return &models.TokenResponse{AccessToken: f.refresh}, nil
}

func (f *fakeAuth) RequestPasswordReset(context.Context, string) (string, error) {
	return "sent", nil
}

func (f *fakeAuth) ResetPassword(context.Context, string, string) (string, error) {
	return "done", nil
}

func (f *fakeAuth) refreshes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

func (f *fakeAuth) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meCalls
}

// memTokens is an in-memory token slot. When saving is set, Save announces
// itself on it and then waits for release before writing.
type memTokens struct {
	mu        sync.Mutex
	token     string
	removeErr error
	saveErr   error
	saving    chan struct{}
	release   chan struct{}
}

func (m *memTokens) Token(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memTokens) Save(_ context.Context, token string) error {
	m.mu.Lock()
	saving, release := m.saving, m.release
	m.mu.Unlock()
	if saving != nil {
		saving <- struct{}{}
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *memTokens) Remove(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	m.token = ""
	return nil
}

func (m *memTokens) gate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saving = make(chan struct{}, 1)
	m.release = make(chan struct{})
}

func (m *memTokens) get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

var errBoom = errors.New("boom")
