package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"article-desk/internal/model"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is where the articles API listens in development.
	DefaultBaseURL = "http://localhost:9000/api"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries the controller's request ticket.
	RequestIDHeader = "X-Request-ID"
)

type requestIDKey struct{}

// WithRequestID attaches a request id that the client sends as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Client talks to the articles API. The token is passed per call; the client
// keeps no session state of its own.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ListResponse struct {
	Message  string          `json:"message"`
	Articles []model.Article `json:"articles"`
}

type ArticleResponse struct {
	Message string        `json:"message"`
	Article model.Article `json:"article"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/login", "", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListArticles fetches every article visible to the token.
func (c *Client) ListArticles(ctx context.Context, token string) (*ListResponse, error) {
	var out ListResponse
	if err := c.do(ctx, "list", http.MethodGet, "/articles", token, nil, &out); err != nil {
		return nil, err
	}
	if out.Articles == nil {
		out.Articles = []model.Article{}
	}
	return &out, nil
}

func (c *Client) CreateArticle(ctx context.Context, token string, in model.ArticleInput) (*ArticleResponse, error) {
	var out ArticleResponse
	if err := c.do(ctx, "create", http.MethodPost, "/articles", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateArticle(ctx context.Context, token string, id int, in model.ArticleInput) (*ArticleResponse, error) {
	var out ArticleResponse
	if err := c.do(ctx, "update", http.MethodPut, articlePath(id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteArticle(ctx context.Context, token string, id int) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, "delete", http.MethodDelete, articlePath(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func articlePath(id int) string {
	return "/articles/" + strconv.Itoa(id)
}

// do sends one request. A non-empty token goes raw into Authorization.
func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	requestID := requestIDFrom(ctx)
	if requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}

	logger := c.logger.With(zap.String("op", op), zap.String("request_id", requestID))
	logger.Debug("Sending request", zap.String("method", method), zap.String("path", path))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	logger.Debug("Received response", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Kind: KindRejected, Op: op, StatusCode: resp.StatusCode}
		if resp.StatusCode == http.StatusUnauthorized {
			apiErr.Kind = KindUnauthorized
		}
		var msg MessageResponse
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response body: %w", err)}
	}
	return nil
}
