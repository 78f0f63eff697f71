package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"travelease/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testSecret = "test-secret"
	testUserID = "5b0f8a4e-2c61-4d3a-9a57-1f2e3d4c5b6a"
)

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(userID))
	})
}

func TestAuthMiddleware(t *testing.T) {
	valid := jwt.MapClaims{"sub": testUserID, "exp": time.Now().Add(time.Hour).Unix()}

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name: "bearer header",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid))
			},
			wantStatus: http.StatusOK,
			wantBody:   testUserID,
		},
		{
			name: "query token",
			prepare: func(r *http.Request) {
				q := r.URL.Query()
				q.Set("token", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid))
				r.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusOK,
			wantBody:   testUserID,
		},
		{
			name:       "no token",
			prepare:    func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "No token provided",
		},
		{
			name: "wrong secret",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte("other"), valid))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid or expired token",
		},
		{
			name: "expired",
			prepare: func(r *http.Request) {
				claims := jwt.MapClaims{"sub": testUserID, "exp": time.Now().Add(-time.Hour).Unix()}
				r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid or expired token",
		},
		{
			name: "other hmac algorithm",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS512, []byte(testSecret), valid))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid or expired token",
		},
		{
			name: "missing sub",
			prepare: func(r *http.Request) {
				claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
				r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "sub",
		},
		{
			name: "sub is not a uuid",
			prepare: func(r *http.Request) {
				claims := jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(time.Hour).Unix()}
				r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "sub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/summaries", nil)
			tt.prepare(req)
			rr := httptest.NewRecorder()

			AuthMiddleware(testSecret)(echoUser()).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

func TestAuthMiddleware_NoSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret),
		jwt.MapClaims{"sub": testUserID}))
	rr := httptest.NewRecorder()

	AuthMiddleware("")(echoUser()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)

	userID, ok := UserIDFromContext(WithUserID(req.Context(), testUserID))
	assert.True(t, ok)
	assert.Equal(t, testUserID, userID)
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		CORSMiddleware([]string{"https://app.example.com"})(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", rr.Header().Get("Vary"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()
		CORSMiddleware([]string{"https://app.example.com"})(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://anything.example.com")
		rr := httptest.NewRecorder()
		CORSMiddleware(nil)(next).ServeHTTP(rr, req)

		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/process", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		CORSMiddleware([]string{"*"})(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLogger)
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	for _, path := range []string{"/missing", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "GET", first["method"])
	assert.Equal(t, "/missing", first["path"])
	assert.EqualValues(t, http.StatusNotFound, first["status"])
	assert.NotEmpty(t, first["request_id"])
	assert.Contains(t, first, "duration_ms")

	assert.EqualValues(t, http.StatusOK, entries[1].ContextMap()["status"])
}
