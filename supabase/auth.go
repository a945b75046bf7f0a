package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ksidibe/boutik"
)

const sessionFileName = "session.json"

func sessionFilePath(dataDir string) string {
	if dataDir == "" {
		dataDir = os.TempDir()
	}
	return filepath.Join(dataDir, sessionFileName)
}

// tokenResponse is what GoTrue returns from both the password grant and
// sign-up.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// auth performs one GoTrue call.
func (c *Client) auth(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPost, c.baseURL+"/auth/v1/"+path, body, out)
}

// call is the shared HTTP plumbing for non-PostgREST endpoints.
func (c *Client) call(ctx context.Context, method, uri string, body, out any) error {
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

// SignIn authenticates with the password grant and persists the session.
func (c *Client) SignIn(ctx context.Context, email, password string) (boutik.Session, error) {
	var tok tokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.auth(ctx, "token?grant_type=password", body, &tok); err != nil {
		return boutik.Session{}, err
	}
	return c.adoptSession(tok)
}

// SignUp creates an auth account and persists the resulting session. The
// display name travels in the user metadata.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (boutik.Session, error) {
	var tok tokenResponse
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": displayName},
	}
	if err := c.auth(ctx, "signup", body, &tok); err != nil {
		return boutik.Session{}, err
	}
	return c.adoptSession(tok)
}

func (c *Client) adoptSession(tok tokenResponse) (boutik.Session, error) {
	session := boutik.Session{
		AccessToken: tok.AccessToken,
		UserID:      tok.User.ID,
		Email:       tok.User.Email,
	}
	if session.UserID == "" {
		session.UserID = subjectOf(tok.AccessToken)
	}

	c.mu.Lock()
	c.session = &session
	c.mu.Unlock()

	if err := c.saveSession(session); err != nil {
		c.log.Warnw("could not persist session", "err", err)
	}
	return session, nil
}

// CurrentSession restores the persisted session if it has not expired.
// No session is not an error; the caller simply is not signed in.
func (c *Client) CurrentSession(ctx context.Context) (*boutik.Session, error) {
	c.mu.Lock()
	if c.session != nil {
		s := *c.session
		c.mu.Unlock()
		return &s, nil
	}
	c.mu.Unlock()

	data, err := os.ReadFile(c.sessionPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session boutik.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, nil
	}
	if expired(session.AccessToken) {
		_ = os.Remove(c.sessionPath)
		return nil, nil
	}

	c.mu.Lock()
	c.session = &session
	c.mu.Unlock()
	return &session, nil
}

// SignOut revokes the session remotely and forgets it locally. The
// revocation needs the user token, so it runs before the session is
// cleared; the local half always happens.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	had := c.session != nil
	c.mu.Unlock()

	var err error
	if had {
		err = c.auth(ctx, "logout", nil, nil)
	}

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	_ = os.Remove(c.sessionPath)
	return err
}

func (c *Client) saveSession(s boutik.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0o600)
}

// subjectOf extracts the user id from an access token without verifying
// it. Verification is the server's job; locally the token is only a
// pointer to a profile row.
func subjectOf(accessToken string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

func expired(accessToken string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(time.Now())
}
