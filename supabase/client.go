// Package supabase implements the remote store gateway against a Supabase
// project: the data tables through PostgREST, authentication through
// GoTrue. Every failure surfaces as a typed gateway error so callers can
// tell an unreachable server from a rejected write.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ksidibe/boutik"
	"github.com/ksidibe/boutik/pkg/logger"
)

// Client talks to one Supabase project. It is safe for concurrent use.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	log     *logger.Logger

	sessionPath string

	mu      sync.Mutex
	session *boutik.Session
}

var _ boutik.Remote = (*Client)(nil)

// New returns a gateway for the project at baseURL. The session, once
// signed in, is persisted under dataDir so it survives restarts.
func New(baseURL, anonKey, dataDir string, log *logger.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		anonKey:     anonKey,
		http:        &http.Client{Timeout: 15 * time.Second},
		log:         log.WithComponent("supabase"),
		sessionPath: sessionFilePath(dataDir),
	}
}

// bearer is the token sent on data requests: the signed-in user's when a
// session exists, the anonymous key otherwise.
func (c *Client) bearer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return c.session.AccessToken
	}
	return c.anonKey
}

// rest performs one PostgREST call. body and out may be nil; when out is
// non-nil the response body is decoded into it.
func (c *Client) rest(ctx context.Context, method, table string, query url.Values, body, out any) error {
	uri := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &boutik.GatewayError{Kind: boutik.GatewayDecode, Err: err}
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, uri, payload)
	if err != nil {
		return &boutik.GatewayError{Kind: boutik.GatewayUnreachable, Err: err}
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if out != nil && method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &boutik.GatewayError{Kind: boutik.GatewayUnreachable, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &boutik.GatewayError{Kind: boutik.GatewayUnreachable, Err: err}
	}
	if resp.StatusCode >= 400 {
		return rejection(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &boutik.GatewayError{Kind: boutik.GatewayDecode, Status: resp.StatusCode, Err: err}
	}
	return nil
}

// rejection decodes the PostgREST/GoTrue error payload, which carries the
// message under varying keys.
func rejection(status int, data []byte) *boutik.GatewayError {
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(data, &payload)
	msg := payload.Message
	if msg == "" {
		msg = payload.Msg
	}
	if msg == "" {
		msg = payload.ErrorDescription
	}
	return &boutik.GatewayError{Kind: boutik.GatewayRejected, Status: status, Message: msg}
}

func eq(id string) url.Values {
	return url.Values{"id": {"eq." + id}}
}

// firstOf returns the only row callers expect back from an insert with
// return=representation.
func firstOf[T any](rows []T, table string) (T, error) {
	var zero T
	if len(rows) == 0 {
		return zero, &boutik.GatewayError{
			Kind:    boutik.GatewayDecode,
			Message: fmt.Sprintf("empty representation from %s", table),
		}
	}
	return rows[0], nil
}

// --- Listing ---

func (c *Client) ListProducts(ctx context.Context) ([]boutik.Product, error) {
	var rows []productRow
	q := url.Values{"select": {"*"}, "order": {"name.asc"}}
	if err := c.rest(ctx, http.MethodGet, "products", q, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]boutik.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) ListClients(ctx context.Context) ([]boutik.Client, error) {
	var rows []clientRow
	q := url.Values{"select": {"*"}, "order": {"name.asc"}}
	if err := c.rest(ctx, http.MethodGet, "clients", q, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]boutik.Client, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) ListEmployees(ctx context.Context) ([]boutik.Employee, error) {
	var rows []employeeRow
	q := url.Values{"select": {"*"}, "order": {"name.asc"}}
	if err := c.rest(ctx, http.MethodGet, "employees", q, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]boutik.Employee, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// ListTransactions returns the hundred most recent transactions with
// their line items embedded.
func (c *Client) ListTransactions(ctx context.Context) ([]boutik.Transaction, error) {
	var rows []transactionRow
	q := url.Values{
		"select": {"*,items:transaction_items(*)"},
		"order":  {"date.desc"},
		"limit":  {"100"},
	}
	if err := c.rest(ctx, http.MethodGet, "transactions", q, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]boutik.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// --- Transactions ---

func (c *Client) InsertTransaction(ctx context.Context, tx boutik.Transaction) (boutik.Transaction, error) {
	var rows []transactionRow
	if err := c.rest(ctx, http.MethodPost, "transactions", nil, transactionToRow(tx), &rows); err != nil {
		return boutik.Transaction{}, err
	}
	row, err := firstOf(rows, "transactions")
	if err != nil {
		return boutik.Transaction{}, err
	}
	saved := row.toDomain()
	saved.Items = tx.Items
	return saved, nil
}

func (c *Client) UpdateTransactionStatus(ctx context.Context, id string, status boutik.Status, method boutik.PaymentMethod) error {
	patch := map[string]string{"status": string(status), "method": string(method)}
	return c.rest(ctx, http.MethodPatch, "transactions", eq(id), patch, nil)
}

func (c *Client) InsertTransactionItems(ctx context.Context, transactionID string, items []boutik.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]itemRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, itemRow{
			TransactionID: transactionID,
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			Quantity:      it.Quantity,
			UnitPrice:     int64(it.UnitPrice),
		})
	}
	return c.rest(ctx, http.MethodPost, "transaction_items", nil, rows, nil)
}

// --- Stock ---

// AdjustProductStock reads the current level and writes it back adjusted.
// PostgREST has no increment verb; concurrent adjustments from two
// devices reconcile through the next full sync.
func (c *Client) AdjustProductStock(ctx context.Context, productID string, change int) error {
	var rows []productRow
	q := eq(productID)
	q.Set("select", "id,stock_level")
	if err := c.rest(ctx, http.MethodGet, "products", q, nil, &rows); err != nil {
		return err
	}
	row, err := firstOf(rows, "products")
	if err != nil {
		return err
	}
	patch := map[string]int{"stock_level": row.StockLevel + change}
	return c.rest(ctx, http.MethodPatch, "products", eq(productID), patch, nil)
}

func (c *Client) InsertStockMovement(ctx context.Context, m boutik.StockMovement) error {
	row := movementRow{
		ProductID:      m.ProductID,
		ProductName:    m.ProductName,
		Date:           m.Date,
		QuantityChange: m.QuantityChange,
		Reason:         m.Reason,
		AuthorName:     m.AuthorName,
	}
	return c.rest(ctx, http.MethodPost, "stock_movements", nil, row, nil)
}

// --- Products ---

func (c *Client) InsertProduct(ctx context.Context, p boutik.Product) (boutik.Product, error) {
	var rows []productRow
	if err := c.rest(ctx, http.MethodPost, "products", nil, productToRow(p), &rows); err != nil {
		return boutik.Product{}, err
	}
	row, err := firstOf(rows, "products")
	if err != nil {
		return boutik.Product{}, err
	}
	return row.toDomain(), nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, u boutik.ProductUpdate) error {
	patch := map[string]any{}
	if u.Name != nil {
		patch["name"] = *u.Name
	}
	if u.Category != nil {
		patch["category"] = *u.Category
	}
	if u.Price != nil {
		patch["price"] = int64(*u.Price)
	}
	if u.StockLevel != nil {
		patch["stock_level"] = *u.StockLevel
	}
	if u.MinStockLevel != nil {
		patch["min_stock_level"] = *u.MinStockLevel
	}
	if u.ImageRef != nil {
		patch["image_url"] = *u.ImageRef
	}
	if len(patch) == 0 {
		return nil
	}
	return c.rest(ctx, http.MethodPatch, "products", eq(id), patch, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.rest(ctx, http.MethodDelete, "products", eq(id), nil, nil)
}

// --- Clients ---

func (c *Client) FindClientByName(ctx context.Context, name string) (*boutik.Client, error) {
	var rows []clientRow
	q := url.Values{"name": {"ilike." + name}, "limit": {"1"}}
	if err := c.rest(ctx, http.MethodGet, "clients", q, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	found := rows[0].toDomain()
	return &found, nil
}

func (c *Client) InsertClient(ctx context.Context, cl boutik.Client) (boutik.Client, error) {
	var rows []clientRow
	if err := c.rest(ctx, http.MethodPost, "clients", nil, clientToRow(cl), &rows); err != nil {
		return boutik.Client{}, err
	}
	row, err := firstOf(rows, "clients")
	if err != nil {
		return boutik.Client{}, err
	}
	return row.toDomain(), nil
}

func (c *Client) UpdateClientDebt(ctx context.Context, id string, total boutik.Money) error {
	patch := map[string]int64{"total_debt": int64(total)}
	return c.rest(ctx, http.MethodPatch, "clients", eq(id), patch, nil)
}

// --- Employees ---

func (c *Client) InsertEmployee(ctx context.Context, e boutik.Employee) (boutik.Employee, error) {
	var rows []employeeRow
	if err := c.rest(ctx, http.MethodPost, "employees", nil, employeeToRow(e), &rows); err != nil {
		return boutik.Employee{}, err
	}
	row, err := firstOf(rows, "employees")
	if err != nil {
		return boutik.Employee{}, err
	}
	return row.toDomain(), nil
}

func (c *Client) UpdateEmployee(ctx context.Context, id string, u boutik.EmployeeUpdate) error {
	patch := map[string]any{}
	if u.Name != nil {
		patch["name"] = *u.Name
	}
	if u.Role != nil {
		patch["role"] = *u.Role
	}
	if u.Salary != nil {
		patch["salary"] = int64(*u.Salary)
	}
	if u.AdvancesTaken != nil {
		patch["advances_taken"] = int64(*u.AdvancesTaken)
	}
	if u.IsPaid != nil {
		patch["is_paid"] = *u.IsPaid
	}
	if u.IsPresent != nil {
		patch["is_present"] = *u.IsPresent
	}
	if u.AccessRights != nil {
		rights := make([]string, 0, len(*u.AccessRights))
		for _, r := range *u.AccessRights {
			rights = append(rights, string(r))
		}
		patch["access_rights"] = rights
	}
	if len(patch) == 0 {
		return nil
	}
	return c.rest(ctx, http.MethodPatch, "employees", eq(id), patch, nil)
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.rest(ctx, http.MethodDelete, "employees", eq(id), nil, nil)
}

func (c *Client) FindEmployeeByAuthID(ctx context.Context, authUserID string) (*boutik.Employee, error) {
	var rows []employeeRow
	q := url.Values{"auth_user_id": {"eq." + authUserID}, "limit": {"1"}}
	if err := c.rest(ctx, http.MethodGet, "employees", q, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	found := rows[0].toDomain()
	return &found, nil
}
