package userservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPIdentityProvider(t *testing.T) {
	testCases := []struct {
		name        string
		handler     http.HandlerFunc
		expectedErr bool
	}{
		{
			name: "valid assertion",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer assertion-token", r.Header.Get("Authorization"))
				json.NewEncoder(w).Encode(ProviderIdentity{Email: "fed@example.com", Name: "Fed"})
			},
		},
		{
			name: "provider rejects",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			expectedErr: true,
		},
		{
			name: "profile without email",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ProviderIdentity{Name: "No Email"})
			},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			p := NewHTTPIdentityProvider(srv.URL)

			identity, err := p.VerifyAssertion(context.Background(), "assertion-token")
			if tc.expectedErr {
				assert.ErrorIs(t, err, ErrProviderRejected)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "fed@example.com", identity.Email)
		})
	}
}
