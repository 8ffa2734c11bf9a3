// ABOUTME: HTTP client for the cohost API
// ABOUTME: Handles login key derivation and JSON requests with cookie auth

package chost

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// DefaultBaseURL is the API base used by NewClient.
const DefaultBaseURL = "https://cohost.org/api/v1/"

const userAgent = "chost/0.1 (+https://github.com/harper/chost)"

const (
	pbkdf2Iterations = 200_000
	pbkdf2KeyLength  = 128
)

// Client talks to the cohost API. The zero value is not usable; create one
// with NewClient. Authentication state lives in the client's cookie jar, so
// a Client (and any Session wrapping it) may be shared after Login.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewClient creates a Client against DefaultBaseURL with an in-process
// cookie jar.
func NewClient() *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Jar: jar},
		log:     slog.Default(),
	}
}

// WithBaseURL points the client at a different API base. A trailing slash
// is added if missing.
func (c *Client) WithBaseURL(base string) *Client {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	c.baseURL = base
	return c
}

// WithLogger sets the structured logger used for request logging.
func (c *Client) WithLogger(log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	c.log = log
	return c
}

// Login authenticates with an email and password and returns a Session.
// The password never leaves the process: the server sends a salt, and the
// login request carries a PBKDF2-derived hash.
//
// Securely storing the user's password is left to the caller.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var saltResp struct {
		Salt string `json:"salt"`
	}
	if err := c.do(ctx, http.MethodGet, "login/salt?email="+url.QueryEscape(email), nil, &saltResp); err != nil {
		return nil, err
	}

	salt, err := decodeSalt(saltResp.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	hash := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha512.New384)

	req := struct {
		Email      string `json:"email"`
		ClientHash string `json:"clientHash"`
	}{
		Email:      email,
		ClientHash: base64.StdEncoding.EncodeToString(hash),
	}
	var loginResp struct {
		UserID uint64 `json:"userId"`
	}
	if err := c.do(ctx, http.MethodPost, "login", req, &loginResp); err != nil {
		return nil, err
	}
	c.log.Info("logged in", "userId", loginResp.UserID)

	return &Session{client: c}, nil
}

// GetPostsPage fetches one page of a project's published posts. Pages start
// at 0; an empty page means there are no more.
func (c *Client) GetPostsPage(ctx context.Context, project string, page uint64) ([]PublishedPost, error) {
	var resp postPage
	path := fmt.Sprintf("project/%s/posts?page=%d", url.PathEscape(project), page)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	posts := make([]PublishedPost, 0, len(resp.Items))
	for _, item := range resp.Items {
		posts = append(posts, item.published())
	}
	return posts, nil
}

// decodeSalt decodes the salt from the login/salt endpoint.
//
// The salt looks like URL-safe Base64 without padding, but the server's own
// browser-side derivation decodes it with a lookup table for the standard
// alphabet, where `-` and `_` fall through to 0. Replacing both with `A`
// (the standard-alphabet character for 0) before a standard no-pad decode
// reproduces the exact bytes the server derives against. A plain URL-safe
// decode would produce a different hash for any salt containing `-` or `_`.
func decodeSalt(salt string) ([]byte, error) {
	replaced := strings.NewReplacer("-", "A", "_", "A").Replace(salt)
	return base64.StdEncoding.WithPadding(base64.NoPadding).DecodeString(replaced)
}

// do issues a JSON request against the API base and decodes the response
// into out. A nil body sends no payload; a nil out discards the response.
// Non-2xx responses are returned as *StatusError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("request", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
