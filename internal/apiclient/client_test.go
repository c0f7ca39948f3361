package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackpearl/shipyard-console/internal/session"
	"github.com/blackpearl/shipyard-console/internal/token"
	"github.com/blackpearl/shipyard-console/models"
)

func loggedInStore(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(session.NewMemoryBackend(), nil)
	credential, err := token.Sign([]byte("k"), "eng@blackpearl.com", "USER", "Engineering", 42, time.Hour)
	require.NoError(t, err)
	claims, err := token.Decode(credential)
	require.NoError(t, err)
	require.NoError(t, store.Save(credential, claims, nil))
	return store
}

func TestClient_SendsBearerHeader(t *testing.T) {
	store := loggedInStore(t)

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalUsers": 3}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, nil)
	summary, err := c.Dashboard.Summary(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, int64(3), summary.TotalUsers)
	assert.Equal(t, "Bearer "+store.Credential(), gotAuth)
}

func TestClient_NoAuthHeaderWhenLoggedOut(t *testing.T) {
	store := session.NewStore(session.NewMemoryBackend(), nil)

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, nil)
	_, err := c.Tenders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_AuthRejectedClearsSessionAndFiresHook(t *testing.T) {
	store := loggedInStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	hookFired := false
	c := New(srv.URL, store, nil, WithAuthRejectedHook(func() { hookFired = true }))

	_, err := c.Users.List(context.Background())
	assert.ErrorIs(t, err, ErrAuthRejected)
	assert.True(t, hookFired)
	assert.False(t, store.IsLoggedIn())
}

func TestClient_ErrorMessageExtraction(t *testing.T) {
	store := loggedInStore(t)

	t.Run("message in body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Tender already closed"}`))
		}))
		defer srv.Close()

		c := New(srv.URL, store, nil)
		err := c.Tenders.Close(context.Background(), 5)
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusBadRequest, reqErr.Status)
		assert.Equal(t, "Tender already closed", reqErr.Message)
	})

	t.Run("unparseable body falls back to generic message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`<html>boom</html>`))
		}))
		defer srv.Close()

		c := New(srv.URL, store, nil)
		err := c.Inventory.Restock(context.Background(), 1, 10)
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, "Request failed", reqErr.Message)
	})

	t.Run("transport failure", func(t *testing.T) {
		c := New("http://127.0.0.1:1", store, nil)
		_, err := c.Payments.List(context.Background())
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.False(t, IsAuthRejected(err))
	})
}

func TestClient_NoContentAndNullResponses(t *testing.T) {
	store := loggedInStore(t)

	t.Run("204 no content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := New(srv.URL, store, nil)
		assert.NoError(t, c.Notifications.MarkRead(context.Background(), 9))
	})

	t.Run("null summary", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`null`))
		}))
		defer srv.Close()

		c := New(srv.URL, store, nil)
		summary, err := c.Dashboard.Summary(context.Background())
		require.NoError(t, err)
		assert.Nil(t, summary)
	})
}

func TestClient_LoginRoundTrip(t *testing.T) {
	store := session.NewStore(session.NewMemoryBackend(), nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"token":"t","user":{"id":1,"email":"a@blackpearl.com","role":"ADMIN","department":"Administration"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, nil)
	resp, err := c.Auth.Login(context.Background(), models.LoginRequest{Email: "a@blackpearl.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "t", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "ADMIN", resp.User.Role)
}
