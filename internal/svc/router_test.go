package svc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	hash, err := HashPassword("password")
	require.NoError(t, err)

	srv, err := NewServer(Config{
		TokenSecret: []byte("0123456789012345678901234567890123456789"),
		DB:          Database{Type: DatabaseInMemory},
		Operator:    Operator{Username: "admin", PasswordHash: hash},
	})
	require.NoError(t, err)

	return srv, login(t, srv, "admin", "password")
}

func login(t *testing.T, srv *Server, user, pass string) string {
	t.Helper()

	body, _ := json.Marshal(loginRequest{Username: user, Password: pass})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp loginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLogin_rejectsBadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(loginRequest{Username: "admin", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestScripts_createGetRunList(t *testing.T) {
	srv, token := newTestServer(t)
	router := srv.Router()

	createBody, _ := json.Marshal(createScriptRequest{Name: "doubler", Source: `package main; print(2 * 3);`})
	req := httptest.NewRequest(http.MethodPost, "/scripts", bytes.NewReader(createBody))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created scriptResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	// GET /scripts/{id}
	req = httptest.NewRequest(http.MethodGet, "/scripts/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// POST /scripts/{id}/run
	req = httptest.NewRequest(http.MethodPost, "/scripts/"+created.ID+"/run", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var run runResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&run))
	assert.Equal(t, "6\n", run.Output)
	assert.Empty(t, run.Error)

	// GET /scripts/{id}/runs
	req = httptest.NewRequest(http.MethodGet, "/scripts/"+created.ID+"/runs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var runs []runResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&runs))
	assert.Len(t, runs, 1)
}

func TestScripts_createRejectsParseError(t *testing.T) {
	srv, token := newTestServer(t)

	createBody, _ := json.Marshal(createScriptRequest{Name: "bad", Source: `package main; x = ;`})
	req := httptest.NewRequest(http.MethodPost, "/scripts", bytes.NewReader(createBody))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestScripts_requiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/scripts/00000000-0000-0000-0000-000000000000", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
