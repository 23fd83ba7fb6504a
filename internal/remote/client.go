package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"context"
	"taja-cart/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client-side throttle so a burst of UI-triggered syncs cannot hammer the
// API. Matches the backend's general tier.
const (
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

type client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a Service talking JSON over HTTPS to the cart API.
func NewClient(baseURL string, timeout time.Duration) Service {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limitGeneral, burstGeneral),
	}
}

// envelope is the API's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type wireItem struct {
	Product  string `json:"product"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

func (c *client) GetCart(ctx context.Context, token string) ([]Item, error) {
	data, err := c.do(ctx, token, http.MethodGet, "/api/cart", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []wireItem `json:"items"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode cart response: %w", err)
	}

	items := make([]Item, 0, len(payload.Items))
	for _, w := range payload.Items {
		items = append(items, Item{
			ProductID: w.Product,
			Title:     w.Title,
			Price:     w.Price,
			Image:     w.Image,
			Quantity:  w.Quantity,
		})
	}
	return items, nil
}

func (c *client) MergeCart(ctx context.Context, token string, items []MergeItem) error {
	body := map[string]interface{}{"items": items}
	_, err := c.do(ctx, token, http.MethodPost, "/api/cart/merge", body)
	return err
}

func (c *client) AddOrUpdateItem(ctx context.Context, token, productID string, quantity int) error {
	body := map[string]interface{}{
		"productId": productID,
		"quantity":  quantity,
	}
	_, err := c.do(ctx, token, http.MethodPost, "/api/cart/items", body)
	return err
}

func (c *client) UpdateItem(ctx context.Context, token, productID string, quantity int) error {
	body := map[string]interface{}{"quantity": quantity}
	_, err := c.do(ctx, token, http.MethodPut, "/api/cart/items/"+url.PathEscape(productID), body)
	return err
}

func (c *client) RemoveItem(ctx context.Context, token, productID string) error {
	_, err := c.do(ctx, token, http.MethodDelete, "/api/cart/items/"+url.PathEscape(productID), nil)
	return err
}

func (c *client) ClearCart(ctx context.Context, token string) error {
	_, err := c.do(ctx, token, http.MethodDelete, "/api/cart", nil)
	return err
}

// do sends one request and unwraps the response envelope, returning the raw
// data payload.
func (c *client) do(ctx context.Context, token, method, path string, body interface{}) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqID := uuid.New().String()
	ctx = logger.WithRequestID(ctx, reqID)
	log := logger.FromCtx(ctx).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			log.Error("failed to marshal request body", zap.Error(err))
			return nil, err
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("cart api request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("read cart api response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		log.Warn("cart api rejected credentials", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("cart api returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("cart api error: status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		log.Warn("failed decoding cart api response", zap.Error(err))
		return nil, fmt.Errorf("decode cart api response: %w", err)
	}
	if !env.Success {
		log.Warn("cart api reported failure", zap.String("message", env.Message))
		if env.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrRejected, env.Message)
		}
		return nil, ErrRejected
	}

	return env.Data, nil
}
