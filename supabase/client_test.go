package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksidibe/boutik"
	"github.com/ksidibe/boutik/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "anon-key", t.TempDir(), logger.Nop())
}

func TestListProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/products", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p1","name":"Sac de Riz (50kg)","category":"Alimentaire","price":22000,"stock_level":45,"min_stock_level":10}]`))
	})

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Sac de Riz (50kg)", products[0].Name)
	assert.Equal(t, boutik.Money(22000), products[0].Price)
	assert.Equal(t, 45, products[0].StockLevel)
}

func TestListTransactionsEmbedsItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "*,items:transaction_items(*)", r.URL.Query().Get("select"))
		assert.Equal(t, "date.desc", r.URL.Query().Get("order"))

		w.Write([]byte(`[{
			"id":"t1","date":"2026-08-20T09:30:00Z","type":"INCOME","amount":12000,
			"description":"Vente","method":"MOBILE_MONEY","status":"PENDING",
			"related_client_id":"c1",
			"items":[{"transaction_id":"t1","product_id":"p1","product_name":"Riz","quantity":2,"unit_price":6000}]
		}]`))
	})

	txs, err := c.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, boutik.Income, tx.Kind)
	assert.Equal(t, boutik.Pending, tx.Status)
	assert.Equal(t, "c1", tx.RelatedClientID)
	assert.True(t, tx.Synced, "rows coming from the server are synced by definition")
	require.Len(t, tx.Items, 1)
	assert.Equal(t, 2, tx.Items[0].Quantity)
}

func TestInsertTransactionReturnsServerRow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var row map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&row))
		assert.NotContains(t, row, "id", "temporary local ids must not reach the server")

		w.Write([]byte(`[{"id":"srv-9","date":"2026-08-20T09:30:00Z","type":"INCOME","amount":5000,"description":"Vente","method":"CASH","status":"SETTLED"}]`))
	})

	saved, err := c.InsertTransaction(context.Background(), boutik.Transaction{
		Kind: boutik.Income, Amount: 5000, Description: "Vente",
		Method: boutik.Cash, Status: boutik.Settled,
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-9", saved.ID)
}

func TestAdjustProductStockReadsThenWrites(t *testing.T) {
	var patched map[string]int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "eq.p1", r.URL.Query().Get("id"))
			w.Write([]byte(`[{"id":"p1","stock_level":40}]`))
		case http.MethodPatch:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
			w.WriteHeader(http.StatusNoContent)
		}
	})

	require.NoError(t, c.AdjustProductStock(context.Background(), "p1", -3))
	assert.Equal(t, 37, patched["stock_level"])
}

func TestRejectedWriteCarriesTheMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"duplicate key value"}`))
	})

	_, err := c.InsertClient(context.Background(), boutik.Client{Name: "Awa"})
	require.Error(t, err)

	var gerr *boutik.GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, boutik.GatewayRejected, gerr.Kind)
	assert.Equal(t, http.StatusConflict, gerr.Status)
	assert.Equal(t, "duplicate key value", gerr.Message)
}

func TestUnreachableServer(t *testing.T) {
	c := New("http://127.0.0.1:1", "anon-key", t.TempDir(), logger.Nop())

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)

	var gerr *boutik.GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, boutik.GatewayUnreachable, gerr.Kind)
}

func TestFindClientByNameNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ilike.Awa", r.URL.Query().Get("name"))
		w.Write([]byte(`[]`))
	})

	found, err := c.FindClientByName(context.Background(), "Awa")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSignInPersistsSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "amina@fasso-app.com", creds["email"])

		w.Write([]byte(`{"access_token":"tok-1","expires_in":3600,"user":{"id":"auth-1","email":"amina@fasso-app.com"}}`))
	})

	session, err := c.SignIn(context.Background(), "amina@fasso-app.com", "000000")
	require.NoError(t, err)
	assert.Equal(t, "auth-1", session.UserID)
	assert.Equal(t, "tok-1", session.AccessToken)

	// subsequent data calls use the user token, not the anon key
	assert.Equal(t, "tok-1", c.bearer())
}

func TestSignOutForgetsSession(t *testing.T) {
	var logoutBearer string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			w.Write([]byte(`{"access_token":"tok-1","user":{"id":"auth-1","email":"a@b.c"}}`))
		case "/auth/v1/logout":
			logoutBearer = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	_, err := c.SignIn(context.Background(), "a@b.c", "x")
	require.NoError(t, err)
	require.NoError(t, c.SignOut(context.Background()))

	// revocation must ride on the user token, not the anon key
	assert.Equal(t, "Bearer tok-1", logoutBearer)

	session, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Equal(t, "anon-key", c.bearer())
}

func TestCurrentSessionRejectsExpiredToken(t *testing.T) {
	// header/payload {"alg":"none"} . {"sub":"auth-1","exp":1} . empty sig
	expired := "eyJhbGciOiJub25lIn0.eyJzdWIiOiJhdXRoLTEiLCJleHAiOjF9."

	dir := t.TempDir()
	c := New("http://unused", "anon-key", dir, logger.Nop())
	require.NoError(t, c.saveSession(boutik.Session{AccessToken: expired, UserID: "auth-1"}))

	session, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session, "expired sessions must not be restored")
}
