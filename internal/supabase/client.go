// Package supabase is a thin client for the hosted backend: the PostgREST
// data API, the auth API and edge functions.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// CodeNoRows PostgREST code for a single-object request matching zero rows.
	CodeNoRows = "PGRST116"

	mediaSingleObject = "application/vnd.pgrst.object+json"
)

// Error error body returned by the data, auth and functions APIs.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
}

// IsNoRows reports whether err is the PostgREST "no rows" error.
func IsNoRows(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeNoRows
}

type accessTokenKey struct{}

// WithAccessToken attaches a user session token; requests made with the
// returned context authenticate as that user instead of the anon key.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func accessToken(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}

// Client hosted backend client. One attempt per call, no retries.
type Client struct {
	http    *resty.Client
	baseURL string
	anonKey string
	logger  *zap.Logger
}

func NewClient(baseURL, anonKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(0).
		SetHeader("apikey", anonKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: client, baseURL: baseURL, anonKey: anonKey, logger: logger}
}

// BaseURL project URL without trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) request(ctx context.Context) *resty.Request {
	bearer := c.anonKey
	if token := accessToken(ctx); token != "" {
		bearer = token
	}
	return c.http.R().SetContext(ctx).SetAuthToken(bearer)
}

// send executes req and decodes a success body into out (when non-nil).
func (c *Client) send(req *resty.Request, method, path string, out any) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr := decodeError(resp)
		c.logger.Debug("backend returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", apiErr.Status),
			zap.String("code", apiErr.Code),
		)
		return apiErr
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *resty.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode()}
	var body struct {
		Error
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		apiErr.Details = body.Details
		apiErr.Hint = body.Hint
		// auth API reports failures as msg / error_description
		if apiErr.Message == "" {
			apiErr.Message = body.Msg
		}
		if apiErr.Message == "" {
			apiErr.Message = body.ErrorDescription
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}
