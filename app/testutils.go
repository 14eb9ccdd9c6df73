package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkpress/inkpress/internal/blogservice"
	"github.com/inkpress/inkpress/internal/commentservice"
	"github.com/inkpress/inkpress/internal/common"
	"github.com/inkpress/inkpress/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

type stubProvider struct {
	identity *userservice.ProviderIdentity
	err      error
}

func (p *stubProvider) VerifyAssertion(ctx context.Context, providerToken string) (*userservice.ProviderIdentity, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	rabbitURI := common.TestRabbitMQ(t)
	rabbitmq, err := common.NewMessageBroker(rabbitURI)
	assert.NoError(t, err)

	err = common.SetupCommentExchange(rabbitmq)
	assert.NoError(t, err)

	codec, err := userservice.NewTokenCodec("test-signing-secret")
	assert.NoError(t, err)

	statics := []userservice.StaticAdmin{
		{Email: "root@example.com", Password: "rootpass", Name: "Root"},
	}
	allowlist := userservice.NewAllowlist(nil)
	provider := &stubProvider{identity: &userservice.ProviderIdentity{Email: "federated@example.com", Name: "Fed"}}

	userService, err := userservice.NewUserService(db, statics, allowlist, provider)
	assert.NoError(t, err)

	cfg := &Config{
		Port:        ":4000",
		Environment: "test",
		Version:     "test",
		JWTSecret:   "test-signing-secret",
	}

	app := &application{
		config:         cfg,
		logger:         logger,
		codec:          codec,
		userService:    userService,
		blogService:    blogservice.NewBlogService(db),
		commentService: commentservice.NewCommentService(db, rabbitmq),
		broker:         rabbitmq,
	}

	return app, db
}

// registerAndLogin creates a writer account through the API and returns its
// session token.
func (ts *testServer) registerAndLogin(t *testing.T, email, password, name string) *string {
	status, _, body := ts.post(t, "/v1/writer/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	token, ok := body["token"].(string)
	assert.True(t, ok)

	return &token
}

func (ts *testServer) loginAdmin(t *testing.T, email, password string) *string {
	status, _, body := ts.post(t, "/v1/admin/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	assert.Equal(t, http.StatusOK, status)

	token, ok := body["token"].(string)
	assert.True(t, ok)

	return &token
}

func (ts *testServer) post(t *testing.T, path string, data any, token *string) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}

	body := bytes.NewReader(jsonPayload)
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) put(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	body := bytes.NewReader(jsonPayload)
	req, err := http.NewRequest(http.MethodPut, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	req, err := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}
