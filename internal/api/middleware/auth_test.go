package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/smartclassroom/classroom-api/internal/core/domain"
)

const testSecret = "unit-test-secret"

type stubSessions struct{ id string }

func (s stubSessions) SessionID() string { return s.id }

func mintToken(t *testing.T, username, role, session string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"username":      username,
		"role":          role,
		"class_session": session,
		"exp":           exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, authHeader, session string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/student/history", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Auth(testSecret, stubSessions{id: session})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, h(c)
}

func TestAuth_ValidTokenInjectsClaims(t *testing.T) {
	token := mintToken(t, "ana", "student", "sess-1", time.Now().Add(time.Hour))

	c, err := runAuth(t, "Bearer "+token, "sess-1")
	if err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}
	if got := c.Get("username"); got != "ana" {
		t.Fatalf("username claim not injected: %v", got)
	}
	if got := c.Get("role"); got != "student" {
		t.Fatalf("role claim not injected: %v", got)
	}
}

func TestAuth_StaleClassSessionRejected(t *testing.T) {
	token := mintToken(t, "ana", "student", "sess-1", time.Now().Add(time.Hour))

	_, err := runAuth(t, "Bearer "+token, "sess-2")
	if !errors.Is(err, domain.ErrClassSessionExpired) {
		t.Fatalf("expected ErrClassSessionExpired, got %v", err)
	}
}

func TestAuth_ExpiredTokenRejected(t *testing.T) {
	token := mintToken(t, "ana", "student", "sess-1", time.Now().Add(-time.Hour))

	_, err := runAuth(t, "Bearer "+token, "sess-1")
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuth_WrongSecretRejected(t *testing.T) {
	claims := jwt.MapClaims{"username": "ana", "class_session": "sess-1"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, handlerErr := runAuth(t, "Bearer "+token, "sess-1")
	assertHTTPStatus(t, handlerErr, http.StatusUnauthorized)
}

func TestAuth_MissingOrMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Bearer", "Basic abc123", "justatoken"} {
		_, err := runAuth(t, header, "sess-1")
		if err == nil {
			t.Fatalf("header %q: expected rejection", header)
		}
		assertHTTPStatus(t, err, http.StatusUnauthorized)
	}
}

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != want {
		t.Fatalf("expected status %d, got %d", want, he.Code)
	}
}
