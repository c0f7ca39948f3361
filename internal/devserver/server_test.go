package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackpearl/shipyard-console/internal/token"
	"github.com/blackpearl/shipyard-console/models"
)

var serverKey = []byte("devserver-test-key")

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(NewMemStore(), Config{SigningKey: serverKey, TokenTTL: time.Hour})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func login(t *testing.T, ts *httptest.Server, email, password string) *models.LoginResponse {
	t.Helper()
	body, _ := json.Marshal(models.LoginRequest{Email: email, Password: password})
	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return &out
}

func doAuthed(t *testing.T, ts *httptest.Server, method, path, credential string, body []byte) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestLogin_IssuesVerifiableCredential(t *testing.T) {
	ts := newTestServer(t)

	out := login(t, ts, "eng@blackpearl.com", "user123")
	require.NotNil(t, out.User)
	assert.Equal(t, "Engineering", out.User.Department)

	claims, err := token.NewVerifier(serverKey).Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "eng@blackpearl.com", claims.Email())
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, "Engineering", claims.Department)
	assert.Equal(t, out.User.ID, claims.UserID)
}

func TestLogin_Failures(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"wrong password", `{"email":"eng@blackpearl.com","password":"nope-nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"email":"ghost@blackpearl.com","password":"user123"}`, http.StatusUnauthorized},
		{"missing fields", `{"email":"eng@blackpearl.com"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewReader([]byte(tc.body)))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	payload := `{"firstName":"New","lastName":"Hand","email":"new@blackpearl.com","department":"Safety","password":"secret1"}`
	resp, err := http.Post(ts.URL+"/api/auth/register", "application/json", bytes.NewReader([]byte(payload)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("duplicate email", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/auth/register", "application/json", bytes.NewReader([]byte(payload)))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	// The new account can log in.
	login(t, ts, "new@blackpearl.com", "secret1")
}

func TestProtectedRoutes_RequireCredential(t *testing.T) {
	ts := newTestServer(t)

	t.Run("no credential", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/dashboard/summary")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired credential", func(t *testing.T) {
		expired, err := token.Sign(serverKey, "eng@blackpearl.com", "USER", "Engineering", 2, -time.Minute)
		require.NoError(t, err)
		resp := doAuthed(t, ts, http.MethodGet, "/api/dashboard/summary", expired, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("forged credential", func(t *testing.T) {
		forged, err := token.Sign([]byte("other-key"), "eng@blackpearl.com", "ADMIN", "", 2, time.Hour)
		require.NoError(t, err)
		resp := doAuthed(t, ts, http.MethodGet, "/api/users", forged, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestSummary_Shape(t *testing.T) {
	ts := newTestServer(t)
	out := login(t, ts, "admin@blackpearl.com", "admin123")

	resp := doAuthed(t, ts, http.MethodGet, "/api/dashboard/summary", out.Token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary models.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, int64(4), summary.TotalUsers)
	assert.Equal(t, int64(2), summary.TotalOrders)
	assert.Equal(t, int64(1), summary.ActiveTenders)
	assert.Equal(t, 1_200_000.0, summary.TotalRevenue)
	assert.Equal(t, int64(1), summary.OrdersByStatus["PENDING"])
	assert.NotEmpty(t, summary.RevenueByMonth)
}

func TestAdminGating(t *testing.T) {
	ts := newTestServer(t)
	userTok := login(t, ts, "eng@blackpearl.com", "user123").Token
	adminTok := login(t, ts, "admin@blackpearl.com", "admin123").Token

	t.Run("user cannot approve", func(t *testing.T) {
		resp := doAuthed(t, ts, http.MethodPatch, "/api/ship-orders/1/approve", userTok, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin approves", func(t *testing.T) {
		resp := doAuthed(t, ts, http.MethodPatch, "/api/ship-orders/1/approve", adminTok, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		list := doAuthed(t, ts, http.MethodGet, "/api/ship-orders", adminTok, nil)
		defer list.Body.Close()
		var orders []models.ShipOrder
		require.NoError(t, json.NewDecoder(list.Body).Decode(&orders))
		assert.Equal(t, "APPROVED", orders[0].Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := doAuthed(t, ts, http.MethodPatch, "/api/ship-orders/999/approve", adminTok, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRestockAndExportFlow(t *testing.T) {
	ts := newTestServer(t)
	adminTok := login(t, ts, "admin@blackpearl.com", "admin123").Token
	userTok := login(t, ts, "eng@blackpearl.com", "user123").Token

	resp := doAuthed(t, ts, http.MethodPatch, "/api/inventory/2/restock", userTok, []byte(`{"quantity":50}`))
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doAuthed(t, ts, http.MethodPatch, "/api/inventory/2/restock", userTok, []byte(`{"quantity":-5}`))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doAuthed(t, ts, http.MethodPost, "/api/stock-exports", userTok,
		[]byte(`{"inventoryId":2,"itemName":"Marine paint","quantity":3,"unit":"drums"}`))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.StockExport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "PENDING", created.Status)
	assert.Equal(t, "eng@blackpearl.com", created.UserEmail)

	resp = doAuthed(t, ts, http.MethodPatch, "/api/stock-exports/1/dispatch", adminTok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestPublicTenders_NoCredentialNeeded(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/public/tenders")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tenders []models.Tender
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tenders))
	require.Len(t, tenders, 1)
	assert.Equal(t, "OPEN", tenders[0].Status)
}

func TestMe(t *testing.T) {
	ts := newTestServer(t)
	tok := login(t, ts, "finance@blackpearl.com", "user123").Token

	resp := doAuthed(t, ts, http.MethodGet, "/api/auth/me", tok, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "Priya", user.FirstName)
	assert.Equal(t, "Finance", user.Department)
}
