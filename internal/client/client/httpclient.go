package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/leeya018/gratitudes/internal/client/models"
	"github.com/leeya018/gratitudes/internal/common"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onTokens     func(models.TokenPair)
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.refreshToken = access, refresh
}

func (c *HTTPClient) Tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// OnTokensRefreshed registers f to be called after a transparent refresh
// so the caller can persist the rotated pair.
func (c *HTTPClient) OnTokensRefreshed(f func(models.TokenPair)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTokens = f
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.raw(ctx, http.MethodGet, "/healthz", nil, false, 0)
	return err
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/register", body, nil, false)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	var pair models.TokenPair
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &pair, false); err != nil {
		return nil, err
	}
	c.SetTokens(pair.AccessToken, pair.RefreshToken)
	return &pair, nil
}

// Logout revokes the refresh token on the server and forgets both tokens.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, refresh := c.Tokens()
	c.SetTokens("", "")
	if refresh == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/api/auth/logout", map[string]string{"refreshToken": refresh}, nil, false)
}

func (c *HTTPClient) Count(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/gratitudes/count", nil, &resp, true); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *HTTPClient) AddGratitude(ctx context.Context, text string) (int, error) {
	var resp struct {
		Message string `json:"message"`
		Count   int    `json:"count"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/gratitudes", map[string]string{"gratitude": text}, &resp, true); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *HTTPClient) Today(ctx context.Context) (*models.Today, error) {
	var today models.Today
	if err := c.do(ctx, http.MethodGet, "/api/gratitudes/today", nil, &today, true); err != nil {
		return nil, err
	}
	return &today, nil
}

func (c *HTTPClient) Dates(ctx context.Context) ([]string, error) {
	var resp struct {
		Dates []string `json:"dates"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/gratitudes/dates", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Dates, nil
}

func (c *HTTPClient) ForDate(ctx context.Context, date string) ([]*models.Gratitude, error) {
	var resp struct {
		Gratitudes []*models.Gratitude `json:"gratitudes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/gratitudes/"+url.PathEscape(date), nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Gratitudes, nil
}

func (c *HTTPClient) Sentences(ctx context.Context) ([]*models.Sentence, error) {
	var resp struct {
		Sentences []*models.Sentence `json:"sentences"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sentences", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Sentences, nil
}

func (c *HTTPClient) CreateSentence(ctx context.Context, text string) (*models.Sentence, error) {
	return c.sentence(ctx, http.MethodPost, "/api/sentences", map[string]string{"text": text})
}

func (c *HTTPClient) ComposeSentence(ctx context.Context, target, emotions, characters string) (*models.Sentence, error) {
	return c.sentence(ctx, http.MethodPost, "/api/sentences", map[string]string{
		"target":     target,
		"emotions":   emotions,
		"characters": characters,
	})
}

func (c *HTTPClient) UpdateSentence(ctx context.Context, id, text string) (*models.Sentence, error) {
	return c.sentence(ctx, http.MethodPatch, "/api/sentences/"+url.PathEscape(id), map[string]string{"text": text})
}

func (c *HTTPClient) DeleteSentence(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sentences/"+url.PathEscape(id), nil, nil, true)
}

// AttachAudio uploads audioData, a base64 string or data URL.
func (c *HTTPClient) AttachAudio(ctx context.Context, id, audioData string) (*models.Sentence, error) {
	return c.sentence(ctx, http.MethodPut, "/api/sentences/"+url.PathEscape(id)+"/audio", map[string]string{"audioData": audioData})
}

func (c *HTTPClient) Audio(ctx context.Context, id string, limit int64) ([]byte, error) {
	return c.raw(ctx, http.MethodGet, "/api/sentences/"+url.PathEscape(id)+"/audio", nil, true, limit)
}

func (c *HTTPClient) sentence(ctx context.Context, method, path string, body any) (*models.Sentence, error) {
	var s models.Sentence
	if err := c.do(ctx, method, path, body, &s, true); err != nil {
		return nil, err
	}
	return &s, nil
}

// do sends a JSON request and decodes a JSON response into out when out is
// not nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, auth bool) error {
	data, err := c.raw(ctx, method, path, body, auth, 0)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// raw sends the request and returns the response body, at most limit bytes
// when limit is positive. An authenticated request that comes back 401 is
// retried once after a token refresh.
func (c *HTTPClient) raw(ctx context.Context, method, path string, body any, auth bool, limit int64) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, err
		}
	}

	data, err := c.send(ctx, method, path, payload, auth, limit)
	if !auth || !errors.Is(err, ErrUnauthorized) {
		return data, err
	}

	if rerr := c.refresh(ctx); rerr != nil {
		return nil, err
	}
	return c.send(ctx, method, path, payload, auth, limit)
}

func (c *HTTPClient) send(ctx context.Context, method, path string, payload []byte, auth bool, limit int64) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		access, _ := c.Tokens()
		if access != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+access)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body := io.Reader(resp.Body)
	if limit > 0 {
		body = io.LimitReader(resp.Body, limit+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil {
			apiErr.Message = e.Error
		}
		return nil, apiErr
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, common.ErrAudioTooLarge
	}
	return data, nil
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	_, refresh := c.Tokens()
	if refresh == "" {
		return ErrUnauthorized
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": refresh})
	if err != nil {
		return err
	}
	data, err := c.send(ctx, http.MethodPost, "/api/auth/refresh", payload, false, 0)
	if err != nil {
		return err
	}

	var pair models.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	c.SetTokens(pair.AccessToken, pair.RefreshToken)

	c.mu.Lock()
	f := c.onTokens
	c.mu.Unlock()
	if f != nil {
		f(pair)
	}
	return nil
}
