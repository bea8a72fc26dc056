package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientListSendsAuthAndQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feedbacks" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("expected auth header, got %s", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected request id header")
		}
		q := r.URL.Query()
		if q.Get("search") != "late" || q.Get("rating") != "5" {
			t.Fatalf("unexpected filters: %v", q)
		}
		if q.Get("page") != "2" || q.Get("pageSize") != "20" {
			t.Fatalf("unexpected paging: %v", q)
		}
		_, _ = w.Write([]byte(`{"items":[{"id":"f1"}],"totalResults":1}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, Tokens: StaticToken("secret")})
	require.NoError(t, err)
	res, err := client.List(context.Background(), "feedbacks", Query{
		Search:   "late",
		Filters:  map[string]string{"rating": "5", "planId": ""},
		Page:     2,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalResults)
	assert.Len(t, res.Items, 1)
}

func TestSessionTokenPrefersContextCredential(t *testing.T) {
	source := SessionToken{Fallback: "service"}

	assert.Equal(t, "service", source.Token(context.Background()))

	ctx := WithSessionToken(context.Background(), "admin-token")
	assert.Equal(t, "admin-token", source.Token(ctx))

	ctx = WithSessionToken(context.Background(), "")
	assert.Equal(t, "service", source.Token(ctx))
}

func TestHTTPClientSendsContextToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer admin-token" {
			t.Fatalf("expected session credential, got %s", got)
		}
		_, _ = w.Write([]byte(`{"items":[],"totalResults":0}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, Tokens: SessionToken{Fallback: "service"}})
	require.NoError(t, err)
	ctx := WithSessionToken(context.Background(), "admin-token")
	_, err = client.List(ctx, "parents", Query{Page: 1, PageSize: 10})
	require.NoError(t, err)
}

func TestHTTPClientSurfacesServerErrorText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("email already in use"))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	err = client.Create(context.Background(), "parents", map[string]string{"email": "a@b.com"})
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Equal(t, "email already in use", statusErr.Error())
}

func TestHTTPClientStatusErrorFallbackMessage(t *testing.T) {
	err := &StatusError{Code: 502}
	assert.Equal(t, "request failed with status 502", err.Error())
}

func TestHTTPClientUpdateSendsPatch(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	require.NoError(t, client.Update(context.Background(), "parents", "p1", map[string]any{"isVerified": true}))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, true, gotBody["isVerified"])
}

func TestHTTPClientExportStreamsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/export" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("id,amount\np1,100\n"))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, client.Export(context.Background(), "payments", &buf))
	assert.Equal(t, "id,amount\np1,100\n", buf.String())
}

func TestHTTPClientLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "admin@aegis.app" {
			t.Fatalf("unexpected email %s", req.Email)
		}
		_ = json.NewEncoder(w).Encode(loginResponse{Token: "jwt-token"})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	token, err := client.Login(context.Background(), "admin@aegis.app", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
}
