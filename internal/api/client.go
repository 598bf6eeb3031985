package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-console/internal/list"
	"github.com/noah-isme/sma-adp-console/internal/schema"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// TokenSource supplies the bearer credential attached to every request.
type TokenSource interface {
	Token() string
}

// Client talks to one SMA ADP backend. It issues plain REST calls, attaches
// the bearer token, and normalises responses. It never retries; a failed
// request surfaces immediately.
type Client struct {
	http          *http.Client
	baseURL       string
	tokens        TokenSource
	logger        *zap.Logger
	onAuthExpired func()
}

// NewClient constructs a client rooted at baseURL (including the API
// prefix, e.g. http://localhost:8080/api/v1).
func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{http: httpClient, baseURL: baseURL, tokens: tokens, logger: logger}
}

// OnAuthExpired registers the hook fired whenever the server answers 401.
// The session collaborator uses it to trigger its re-login flow.
func (c *Client) OnAuthExpired(fn func()) {
	c.onAuthExpired = fn
}

// List fetches one page of the collection at endpointBase.
func (c *Client) List(ctx context.Context, endpointBase string, page, size int) (list.Page, error) {
	url := fmt.Sprintf("%s%s?page=%d&size=%d", c.baseURL, endpointBase, page, size)
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return list.Page{}, err
	}
	return DecodePage(body, page, size)
}

// Get fetches a single entity by id.
func (c *Client) Get(ctx context.Context, endpointBase, id string) (schema.Entity, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+endpointBase+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeEntity(body)
}

// Create persists a new entity. The server assigns the id.
func (c *Client) Create(ctx context.Context, endpointBase string, entity schema.Entity) (schema.Entity, error) {
	body, err := c.do(ctx, http.MethodPost, c.baseURL+endpointBase, entity)
	if err != nil {
		return nil, err
	}
	return decodeEntity(body)
}

// Update replaces the entity with the given id.
func (c *Client) Update(ctx context.Context, endpointBase, id string, entity schema.Entity) (schema.Entity, error) {
	body, err := c.do(ctx, http.MethodPut, c.baseURL+endpointBase+"/"+id, entity)
	if err != nil {
		return nil, err
	}
	return decodeEntity(body)
}

// Delete removes the entity with the given id.
func (c *Client) Delete(ctx context.Context, endpointBase, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.baseURL+endpointBase+"/"+id, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("url", url), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, appErrors.ErrNetwork.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, "failed to read response body")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return nil, appErrors.Clone(appErrors.ErrAuthExpired, "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverError(resp.StatusCode, body)
	}

	return body, nil
}

// serverError carries the server's message verbatim when one is present.
func serverError(status int, body []byte) *appErrors.Error {
	message := decodeErrorMessage(body)
	if message == "" {
		message = http.StatusText(status)
	}
	code := appErrors.ErrServer.Code
	if status == http.StatusNotFound {
		code = appErrors.ErrNotFound.Code
	}
	return appErrors.New(code, status, message)
}

func decodeErrorMessage(body []byte) string {
	var envelope struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Error != nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return envelope.Message
}

func decodeEntity(body []byte) (schema.Entity, error) {
	if len(body) == 0 {
		return nil, nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	raw := body
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}
	var entity schema.Entity
	if err := json.Unmarshal(raw, &entity); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDecode.Code, 0, appErrors.ErrDecode.Message)
	}
	return entity, nil
}
