package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestRegisterPasswordBoundary(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.request(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "1234567",
	})
	if status != http.StatusBadRequest {
		t.Errorf("7-char password: status %d, want 400", status)
	}

	status, body := env.request(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "12345678",
	})
	if status != http.StatusCreated {
		t.Fatalf("8-char password: status %d, want 201 (%v)", status, body)
	}
	if body["token"] == "" || body["token"] == nil {
		t.Error("register response missing token")
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "ann@x.com" {
		t.Errorf("register response user = %v", body["user"])
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	for name, input := range map[string]map[string]string{
		"missing name":  {"email": "a@x.com", "password": "password1"},
		"missing email": {"name": "A", "password": "password1"},
		"bad email":     {"name": "A", "email": "not-an-email", "password": "password1"},
	} {
		status, _ := env.request(t, http.MethodPost, "/api/user/register", "", input)
		if status != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", name, status)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "ann@x.com", "password1")

	status, _ := env.request(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"name": "Other Ann", "email": "ann@x.com", "password": "password2",
	})
	if status != http.StatusConflict {
		t.Errorf("duplicate email: status %d, want 409", status)
	}
}

// TestLoginGenericFailure verifies wrong password is a 401 (never a
// 400) and carries the same message as an unknown email, so accounts
// cannot be enumerated.
func TestLoginGenericFailure(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "ann@x.com", "password1")

	status, wrongPass := env.request(t, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "ann@x.com", "password": "not-it-at-all",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d, want 401", status)
	}

	status, unknown := env.request(t, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "nobody@x.com", "password": "password1",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("unknown email: status %d, want 401", status)
	}

	if wrongPass["message"] != unknown["message"] {
		t.Errorf("login failure messages differ: %q vs %q", wrongPass["message"], unknown["message"])
	}
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "ann@x.com", "password1")

	status, body := env.request(t, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "ann@x.com", "password": "password1",
	})
	if status != http.StatusOK {
		t.Fatalf("login: status %d (%v)", status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}

	status, body = env.request(t, http.MethodGet, "/api/user/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("me: status %d (%v)", status, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["name"] != "Ann" || user["email"] != "ann@x.com" {
		t.Errorf("me returned %v", body["user"])
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "Ann", "ann@x.com", "password1")
	env.register(t, "Ben", "ben@x.com", "password1")

	// Taking another account's email is a conflict.
	status, _ := env.request(t, http.MethodPut, "/api/user/profile", token, map[string]string{
		"name": "Ann", "email": "ben@x.com",
	})
	if status != http.StatusConflict {
		t.Errorf("profile conflict: status %d, want 409", status)
	}

	status, body := env.request(t, http.MethodPut, "/api/user/profile", token, map[string]string{
		"name": "Annie", "email": "annie@x.com",
	})
	if status != http.StatusOK {
		t.Fatalf("profile update: status %d (%v)", status, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["name"] != "Annie" || user["email"] != "annie@x.com" {
		t.Errorf("profile update returned %v", body["user"])
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "Ann", "ann@x.com", "password1")

	status, _ := env.request(t, http.MethodPut, "/api/user/password", token, map[string]string{
		"currentPassword": "wrong-one", "newPassword": "password2",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("wrong current password: status %d, want 401", status)
	}

	status, _ = env.request(t, http.MethodPut, "/api/user/password", token, map[string]string{
		"currentPassword": "password1", "newPassword": "password2",
	})
	if status != http.StatusOK {
		t.Fatalf("password change: status %d", status)
	}

	// The old password stops working, the new one logs in.
	status, _ = env.request(t, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "ann@x.com", "password": "password1",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("old password still accepted: status %d", status)
	}
	status, _ = env.request(t, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "ann@x.com", "password": "password2",
	})
	if status != http.StatusOK {
		t.Errorf("new password rejected: status %d", status)
	}
}

func TestAuthGateRejections(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "ann@x.com", "password1")

	// No header.
	if status, _ := env.request(t, http.MethodGet, "/api/tasks", "", nil); status != http.StatusUnauthorized {
		t.Errorf("no header: status %d, want 401", status)
	}

	// Garbage token.
	if status, _ := env.request(t, http.MethodGet, "/api/tasks", "not-a-jwt", nil); status != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d, want 401", status)
	}

	// Valid signature but already expired.
	expired := signToken(t, env, 1, -time.Hour)
	if status, _ := env.request(t, http.MethodGet, "/api/tasks", expired, nil); status != http.StatusUnauthorized {
		t.Errorf("expired token: status %d, want 401", status)
	}

	// Correctly signed token whose subject no longer exists.
	orphan := signToken(t, env, 999, time.Hour)
	if status, _ := env.request(t, http.MethodGet, "/api/tasks", orphan, nil); status != http.StatusUnauthorized {
		t.Errorf("vanished subject: status %d, want 401", status)
	}
}

func TestTokenInvalidatedWhenUserDeleted(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "Ann", "ann@x.com", "password1")

	env.users.delete(1)

	if status, _ := env.request(t, http.MethodGet, "/api/user/me", token, nil); status != http.StatusUnauthorized {
		t.Errorf("deleted subject: status %d, want 401", status)
	}
}

func signToken(t *testing.T, env *testEnv, userID int64, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(env.cfg.JWTSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
