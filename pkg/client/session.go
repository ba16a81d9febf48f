package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
)

// Session makes calls on behalf of one signed-in user and caches who that
// user is. A Session is safe for concurrent use.
type Session struct {
	client *Client

	mu    sync.RWMutex
	token string
	user  *User
}

// Token returns the credential, empty after SignOut
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SignedIn reports whether the session still holds a credential
func (s *Session) SignedIn() bool {
	return s.Token() != ""
}

// Invalidate drops the cached current user; the next GetCurrentUser refetches
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// GetCurrentUser returns the signed-in user, or nil when the server does not
// recognise the session. A transport failure is still an error.
func (s *Session) GetCurrentUser(ctx context.Context) (*User, error) {
	s.mu.RLock()
	token, cached := s.token, s.user
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	if token == "" {
		return nil, nil
	}

	var user User
	err := s.client.do(ctx, request{op: "get current user", method: http.MethodGet, path: "/api/user", token: token}, &user)
	if err != nil {
		if errors.Is(err, ErrFetchFailed) {
			return nil, nil
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a concurrent SignOut wins
	if s.token != token {
		return nil, nil
	}
	s.user = &user
	return &user, nil
}

// SignOut revokes the token on the server and forgets it locally. Local state
// is cleared even when the server call fails.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if token == "" {
		return nil
	}
	return s.client.do(ctx, request{op: "sign out", method: http.MethodPost, path: "/api/logout", token: token}, nil)
}

// GetApplications lists the user's applications, newest first
func (s *Session) GetApplications(ctx context.Context) ([]Application, error) {
	var out []Application
	err := s.client.do(ctx, s.authed("get applications", http.MethodGet, "/api/applications", nil), &out)
	return out, err
}

// CreateApplication tracks a new application and returns the stored row
func (s *Session) CreateApplication(ctx context.Context, in ApplicationInput) (*Application, error) {
	var out Application
	if err := s.client.do(ctx, s.authed("create application", http.MethodPost, "/api/applications", in), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateApplication applies patch and returns the stored row
func (s *Session) UpdateApplication(ctx context.Context, id int64, patch ApplicationPatch) (*Application, error) {
	var out Application
	path := "/api/applications/" + strconv.FormatInt(id, 10)
	if err := s.client.do(ctx, s.authed("update application", http.MethodPut, path, patch), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteApplication removes an application. Someone else's application is a 404.
func (s *Session) DeleteApplication(ctx context.Context, id int64) (*DeletedApplication, error) {
	path := "/api/applications/" + strconv.FormatInt(id, 10)
	var out DeletedApplication
	if err := s.client.do(ctx, s.authed("delete application", http.MethodDelete, path, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMyExperiences lists the reports the user submitted
func (s *Session) GetMyExperiences(ctx context.Context) ([]Submission, error) {
	var out []Submission
	err := s.client.do(ctx, s.authed("get my experiences", http.MethodGet, "/api/user/experiences", nil), &out)
	return out, err
}

// SubmitExperience shares a report. replayed is true when the server answered
// a repeated IdempotencyKey with the original report.
func (s *Session) SubmitExperience(ctx context.Context, in SubmissionInput) (sub *Submission, replayed bool, err error) {
	req := s.authed("submit experience", http.MethodPost, "/api/experiences", in)
	if in.IdempotencyKey != "" {
		req.headers = map[string]string{"Idempotency-Key": in.IdempotencyKey}
	}
	req.replayed = &replayed

	var out Submission
	if err := s.client.do(ctx, req, &out); err != nil {
		return nil, false, err
	}
	return &out, replayed, nil
}

func (s *Session) authed(op, method, path string, body any) request {
	return request{op: op, method: method, path: path, body: body, token: s.Token()}
}
