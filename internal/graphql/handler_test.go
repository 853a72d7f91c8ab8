// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package graphql_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/threadline/internal/graphql"
	"github.com/threadline/threadline/internal/web"
)

func newTestHandler(t *testing.T) *graphql.Handler {
	t.Helper()
	api := newTestAPI(t)
	return graphql.NewHandler(api.schema, nil, nil)
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req = req.WithContext(web.WithSession(req.Context(), web.NewSession("")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestHandler_BadJSON(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ExecutesQuery(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h, `{"query": "{ users { id } }"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body struct {
		Data struct {
			Users []any `json:"users"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Errors)
	assert.NotNil(t, body.Data.Users)
}

func TestHandler_Variables(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h, `{
		"query": "mutation Register($u: String!, $e: String!, $p: String!) { register(username: $u, email: $e, password: $p) { user { username } } }",
		"operationName": "Register",
		"variables": {"u": "zoe", "e": "zoe@example.com", "p": "secret123"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Register struct {
				User struct {
					Username string `json:"username"`
				} `json:"user"`
			} `json:"register"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Errors)
	assert.Equal(t, "zoe", body.Data.Register.User.Username)
}

func TestHandler_QueryErrorsStillReturn200(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h, `{"query": "{ nonexistentField }"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Errors []any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Errors)
}
