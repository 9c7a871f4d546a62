// Package client is the Go consumer of the DoDeck API: a session
// controller holding at most one authenticated identity, plus the task
// calls built on it. Every request attaches the cached bearer token;
// any 401 received while authenticated tears the session down so the
// caller can never keep acting on a dead credential.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
)

// ErrSessionExpired is returned when the server rejects the cached
// token. The session is already torn down by the time callers see it.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx response with the server's message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Session is the client-side session controller. It is not safe for
// concurrent use; the TUI drives it from a single event loop.
type Session struct {
	baseURL  string
	http     *fasthttp.Client
	token    string
	user     models.PublicUser
	authed   bool
	onExpire func()
}

// NewSession creates an unauthenticated session against the given API
// base URL (e.g. "http://localhost:4000/api").
func NewSession(baseURL string) *Session {
	return &Session{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &fasthttp.Client{},
	}
}

// OnExpire registers the teardown callback invoked when the server
// rejects the cached token (the "navigate to login" hook).
func (s *Session) OnExpire(fn func()) { s.onExpire = fn }

// Authenticated reports whether a credential is cached.
func (s *Session) Authenticated() bool { return s.authed }

// Token returns the cached bearer token, empty when logged out.
func (s *Session) Token() string { return s.token }

// User returns the cached public identity.
func (s *Session) User() models.PublicUser { return s.user }

type authResponse struct {
	Success bool              `json:"success"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

// Register creates an account and caches the returned credential.
func (s *Session) Register(name, email, password string) error {
	var out authResponse
	err := s.do(fasthttp.MethodPost, "/user/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return err
	}
	s.token = out.Token
	s.user = out.User
	s.authed = true
	return nil
}

// Login authenticates and caches the returned credential.
func (s *Session) Login(email, password string) error {
	var out authResponse
	err := s.do(fasthttp.MethodPost, "/user/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return err
	}
	s.token = out.Token
	s.user = out.User
	s.authed = true
	return nil
}

// Restore adopts a previously saved token and validates it against
// /user/me. Any failure clears the credential again.
func (s *Session) Restore(token string) error {
	s.token = token
	s.authed = true

	var out struct {
		Success bool              `json:"success"`
		User    models.PublicUser `json:"user"`
	}
	if err := s.do(fasthttp.MethodGet, "/user/me", nil, &out); err != nil {
		s.clear()
		return err
	}
	s.user = out.User
	return nil
}

// Logout discards the cached credential and identity.
func (s *Session) Logout() { s.clear() }

// UpdateProfile changes name and email and refreshes the cached identity.
func (s *Session) UpdateProfile(name, email string) error {
	var out struct {
		Success bool              `json:"success"`
		User    models.PublicUser `json:"user"`
	}
	err := s.do(fasthttp.MethodPut, "/user/profile", map[string]string{
		"name":  name,
		"email": email,
	}, &out)
	if err != nil {
		return err
	}
	s.user = out.User
	return nil
}

// ChangePassword replaces the account password.
func (s *Session) ChangePassword(current, updated string) error {
	return s.do(fasthttp.MethodPut, "/user/password", map[string]string{
		"currentPassword": current,
		"newPassword":     updated,
	}, nil)
}

func (s *Session) clear() {
	s.token = ""
	s.user = models.PublicUser{}
	s.authed = false
}

// teardown is the 401 path: clear the cache and fire the navigation
// callback exactly as a logout would.
func (s *Session) teardown() {
	s.clear()
	if s.onExpire != nil {
		s.onExpire()
	}
}

// do performs one API call. No retries and no timeouts beyond the
// transport defaults; errors surface to the caller.
func (s *Session) do(method, path string, body any, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(s.baseURL + path)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	if err := s.http.Do(req, resp); err != nil {
		return err
	}

	status := resp.StatusCode()
	if status == fasthttp.StatusUnauthorized && s.authed {
		s.teardown()
		return ErrSessionExpired
	}
	if status >= 400 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(resp.Body(), &failure)
		if failure.Message == "" {
			failure.Message = "request failed"
		}
		return &APIError{Status: status, Message: failure.Message}
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return err
		}
	}
	return nil
}
