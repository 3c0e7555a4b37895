package regression

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopcheck/internal/version"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerUserAgent     = "User-Agent"
	contentTypeJSON     = "application/json"
)

// Response - снятый целиком ответ сервера. Тесты проверяют статус и тело сами.
type Response struct {
	Status   int
	Header   http.Header
	Body     []byte
	Duration time.Duration
}

// Text возвращает тело как строку.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON декодирует тело в v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode %d response %q: %w", r.Status, truncate(r.Text(), 120), err)
	}
	return nil
}

// OK сообщает, что статус 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// StatusError возвращается помощниками, которым нужен успешный ответ.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, truncate(e.Body, 200))
}

// IsStatus сообщает, что err - StatusError с указанным кодом.
func IsStatus(err error, status int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == status
}

// Client обращается к HTTP API магазина. Безопасен для параллельного использования.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Entry
}

// ClientOption настраивает Client.
type ClientOption func(*Client)

// WithHTTPClient подменяет http.Client, например на клиент httptest-сервера.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger задаёт логгер клиента.
func WithLogger(logger *log.Entry) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient создаёт клиент для baseURL. timeout ограничивает каждый запрос.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log.WithField("component", "regression-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL возвращает адрес API без завершающего слэша.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do выполняет запрос. body сериализуется в JSON, если не nil.
// Пустой token означает запрос без Authorization.
func (c *Client) Do(ctx context.Context, method, path, token string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set(headerUserAgent, version.UserAgent("regression"))
	if token != "" {
		for key, values := range AuthHeader(token) {
			req.Header[key] = values
		}
	} else if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	result := &Response{
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Body:     data,
		Duration: time.Since(started),
	}
	c.logger.WithFields(log.Fields{
		"method":      method,
		"path":        path,
		"status":      result.Status,
		"duration_ms": result.Duration.Milliseconds(),
		"auth":        token != "",
	}).Debug("api call")
	return result, nil
}

// SignIn отправляет POST /members/sign-in и декодирует пару токенов при 2xx.
func (c *Client) SignIn(ctx context.Context, req SignInRequest) (TokenResponse, *Response, error) {
	resp, err := c.Do(ctx, http.MethodPost, "/members/sign-in", "", req)
	if err != nil {
		return TokenResponse{}, nil, err
	}
	if !resp.OK() {
		return TokenResponse{}, resp, &StatusError{Op: "sign in", Status: resp.Status, Body: resp.Text()}
	}

	var tokens TokenResponse
	if err := resp.JSON(&tokens); err != nil {
		return TokenResponse{}, resp, err
	}
	return tokens, resp, nil
}

// Login обменивает учётные данные на access-токен. Без повторов и кэша.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	tokens, _, err := c.SignIn(ctx, SignInRequest{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	if tokens.AccessToken == "" {
		return "", errors.New("sign in: empty access token")
	}
	return tokens.AccessToken, nil
}

// Join регистрирует участника через /members/join.
func (c *Client) Join(ctx context.Context, req JoinRequest) (*Response, error) {
	return c.Do(ctx, http.MethodPost, "/members/join", "", req)
}

// JoinAdmin регистрирует администратора через /members/join/admin.
func (c *Client) JoinAdmin(ctx context.Context, req JoinRequest) (*Response, error) {
	return c.Do(ctx, http.MethodPost, "/members/join/admin", "", req)
}

// GetCart читает корзину. Пустой token проверяет отказ в доступе.
func (c *Client) GetCart(ctx context.Context, token string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, "/carts", token, nil)
}

// AddCart кладёт товар в корзину.
func (c *Client) AddCart(ctx context.Context, token string, req AddCartRequest) (*Response, error) {
	return c.Do(ctx, http.MethodPost, "/carts", token, req)
}

// DeleteCart отправляет DELETE /carts-all и возвращает ответ как есть.
func (c *Client) DeleteCart(ctx context.Context, token string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, "/carts-all", token, nil)
}

// ClearCart очищает корзину и требует 2xx.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	resp, err := c.DeleteCart(ctx, token)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &StatusError{Op: "clear cart", Status: resp.Status, Body: resp.Text()}
	}
	return nil
}

// Checkout оформляет заказ из корзины.
func (c *Client) Checkout(ctx context.Context, token string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, "/orders", token, nil)
}

// MyOrders читает заказы текущего участника.
func (c *Client) MyOrders(ctx context.Context, token string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, "/orders/my-order", token, nil)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
