// README: Tests for the auth, session and recovery middleware.
package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"freightquote/internal/auth"
	"freightquote/internal/http/middleware"
)

// stubProvider is a test double for auth.Provider.
type stubProvider struct {
	id  auth.Identity
	err error
}

func (s *stubProvider) Identify(_ context.Context, _ string) (auth.Identity, error) {
	return s.id, s.err
}

func (s *stubProvider) SignOut(_ context.Context, _ string) error { return nil }

func newTestRouter(capability auth.Capability, required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Recovery(zap.NewNop()), middleware.Auth(capability, required), middleware.Session())
	r.GET("/test", func(c *gin.Context) {
		id := middleware.CallerIdentity(c)
		c.JSON(http.StatusOK, gin.H{"uid": id.UID, "display": id.Display, "demo": id.Demo, "session": middleware.CallerSession(c)})
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func do(r *gin.Engine, path, authHeader string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	for _, m := range mutate {
		m(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func firebaseWith(id auth.Identity, err error) auth.Capability {
	return auth.Firebase{Provider: &stubProvider{id: id, err: err}}
}

func TestAuth_DemoMode(t *testing.T) {
	r := newTestRouter(auth.Demo{}, false)
	w := do(r, "/test", "Token whatever")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Modo Demo") {
		t.Errorf("expected demo identity, got %s", w.Body.String())
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	r := newTestRouter(firebaseWith(auth.Identity{UID: "u1"}, nil), false)
	w := do(r, "/test", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 in optional mode, got %d", w.Code)
	}

	r = newTestRouter(firebaseWith(auth.Identity{UID: "u1"}, nil), true)
	w = do(r, "/test", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 when auth is required, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"code":"unauthenticated"`) {
		t.Errorf("expected unauthenticated code, got %s", w.Body.String())
	}
}

func TestAuth_InvalidBearerPrefix(t *testing.T) {
	r := newTestRouter(firebaseWith(auth.Identity{UID: "u1"}, nil), false)
	w := do(r, "/test", "Token sometoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_VerifierError(t *testing.T) {
	r := newTestRouter(firebaseWith(auth.Identity{}, errors.New("bad token")), false)
	w := do(r, "/test", "Bearer invalidtoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	r := newTestRouter(firebaseWith(auth.Identity{UID: "driver123", Display: "ana@example.com"}, nil), false)
	w := do(r, "/test", "Bearer validtoken")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "driver123") || !strings.Contains(body, "ana@example.com") {
		t.Errorf("expected uid and display in body, got %s", body)
	}
	if !strings.Contains(body, `"session":"user:driver123"`) {
		t.Errorf("expected user session, got %s", body)
	}
}

func TestSession_IssuesAndReuses(t *testing.T) {
	r := newTestRouter(auth.Demo{}, false)

	w := do(r, "/test", "")
	issued := w.Header().Get(middleware.SessionHeader)
	if issued == "" {
		t.Fatal("expected a session id header")
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), middleware.SessionCookie+"="+issued) {
		t.Errorf("expected session cookie, got %q", w.Header().Get("Set-Cookie"))
	}

	w = do(r, "/test", "", func(req *http.Request) { req.Header.Set(middleware.SessionHeader, issued) })
	if !strings.Contains(w.Body.String(), `"session":"anon:`+issued+`"`) {
		t.Errorf("expected header session reused, got %s", w.Body.String())
	}
	if w.Header().Get(middleware.SessionHeader) != "" {
		t.Error("expected no new session to be issued")
	}

	w = do(r, "/test", "", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: issued})
	})
	if !strings.Contains(w.Body.String(), `"session":"anon:`+issued+`"`) {
		t.Errorf("expected cookie session reused, got %s", w.Body.String())
	}

	w = do(r, "/test", "", func(req *http.Request) { req.Header.Set(middleware.SessionHeader, "not-a-uuid") })
	if w.Header().Get(middleware.SessionHeader) == "" {
		t.Error("expected a fresh session for an invalid id")
	}
}

func TestRecovery(t *testing.T) {
	r := newTestRouter(auth.Demo{}, false)
	w := do(r, "/panic", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal error") {
		t.Errorf("expected internal error body, got %s", w.Body.String())
	}
}
