package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/userservice"
)

func strptr(s string) *string {
	return &s
}

func TestRecoverPanic(t *testing.T) {
	app, _ := newTestApplication(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	middleware := app.recoverPanic(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, res.Code, http.StatusInternalServerError)
}

func issueToken(t *testing.T, codec *userservice.TokenCodec, identity userservice.Identity) string {
	t.Helper()

	token, err := codec.IssueToken(identity)
	require.NoError(t, err)

	return token
}

// expiredToken builds a token whose exp is already in the past, signed with
// the given secret.
func expiredToken(t *testing.T, secret string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"email": "old@example.com",
		"name":  "Old",
		"role":  "writer",
		"iat":   time.Now().Add(-8 * 24 * time.Hour).Unix(),
		"exp":   time.Now().Add(-24 * time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestAuthenticate(t *testing.T) {
	app, _ := newTestApplication(t)

	validToken := issueToken(t, app.codec, userservice.Identity{Email: "writer@example.com", Name: "Writer", Role: userservice.RoleWriter})

	tests := []struct {
		name           string
		authHeader     *string
		expectedStatus int
		expectedEmail  string
	}{
		{
			name:           "no authentication header is anonymous",
			authHeader:     nil,
			expectedStatus: http.StatusOK,
			expectedEmail:  "",
		},
		{
			name:           "valid token",
			authHeader:     strptr("Bearer " + validToken),
			expectedStatus: http.StatusOK,
			expectedEmail:  "writer@example.com",
		},
		{
			name:           "malformed header",
			authHeader:     strptr("Token abc"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authHeader:     strptr("Bearer not.a.token"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     strptr("Bearer " + expiredToken(t, "test-signing-secret")),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token with wrong signature still reads as expired",
			authHeader:     strptr("Bearer " + expiredToken(t, "some-other-secret")),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotEmail string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotEmail = app.getIdentityContext(r).Email
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.authHeader != nil {
				req.Header.Set("Authorization", *tc.authHeader)
			}

			res := httptest.NewRecorder()
			app.authenticate(next).ServeHTTP(res, req)

			assert.Equal(t, tc.expectedStatus, res.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, tc.expectedEmail, gotEmail)
			}
		})
	}
}

func TestExpiredTokenMessage(t *testing.T) {
	app, _ := newTestApplication(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expiredToken(t, "some-other-secret"))

	res := httptest.NewRecorder()
	app.authenticate(next).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Contains(t, res.Body.String(), "expired")
}

func TestRequireAuth(t *testing.T) {
	app, _ := newTestApplication(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// anonymous request never reaches the handler
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	app.authenticate(app.requireAuth(next)).ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	token := issueToken(t, app.codec, userservice.Identity{Email: "writer@example.com", Name: "Writer", Role: userservice.RoleWriter})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = httptest.NewRecorder()
	app.authenticate(app.requireAuth(next)).ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRequireAdmin(t *testing.T) {
	app, _ := newTestApplication(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		identity       *userservice.Identity
		expectedStatus int
	}{
		{
			name:           "anonymous gets 401",
			identity:       nil,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "writer gets 403",
			identity:       &userservice.Identity{Email: "writer@example.com", Name: "Writer", Role: userservice.RoleWriter},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "admin passes",
			identity:       &userservice.Identity{Email: "admin@example.com", Name: "Admin", Role: userservice.RoleAdmin},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.identity != nil {
				req.Header.Set("Authorization", "Bearer "+issueToken(t, app.codec, *tc.identity))
			}

			res := httptest.NewRecorder()
			app.authenticate(app.requireAdmin(next)).ServeHTTP(res, req)

			assert.Equal(t, tc.expectedStatus, res.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	app, _ := newTestApplication(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(next)

	var lastCode int
	for i := 0; i < 30; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		res := httptest.NewRecorder()
		middleware.ServeHTTP(res, req)
		lastCode = res.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)

	// a different client is unaffected
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	res := httptest.NewRecorder()
	middleware.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
}
