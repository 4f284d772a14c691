package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

const (
	// DefaultBaseURL — боевой API процессинга.
	DefaultBaseURL = "https://api.mercadopago.com"

	defaultRequestTimeout = 10 * time.Second
)

// Client — HTTP-клиент платёжного процессинга. Конструируется один раз на
// процесс и передаётся в сервисы явно, без глобальных синглтонов.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
	logger      *log.Entry
}

// Option настраивает Client.
type Option func(*Client)

// WithBaseURL переопределяет адрес API (используется в тестах).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient задаёт собственный http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger задаёт logger клиента.
func WithLogger(logger *log.Entry) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient создаёт клиент процессинга. Пустой accessToken — фатальная ошибка
// конфигурации: вызывающий обязан отдать её наружу как 500, а не продолжить
// с неработающим redirect.
func NewClient(accessToken string, options ...Option) (*Client, error) {
	if accessToken == "" {
		return nil, domain.ErrProcessorCredentialMissing
	}

	client := &Client{
		accessToken: accessToken,
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultRequestTimeout},
		logger:      log.WithField("component", "payments-client"),
	}
	for _, option := range options {
		option(client)
	}

	return client, nil
}

// CreateIntent создаёт платёжное намерение (preference) и возвращает redirect-адреса.
func (c *Client) CreateIntent(ctx context.Context, req domain.IntentRequest) (domain.Intent, error) {
	body := preferenceCreateRequest{
		Items:               make([]preferenceItem, 0, len(req.Items)),
		Payer:               newPreferencePayer(req.Payer),
		Metadata:            preferenceMetadata{OrderDraft: &req.Draft},
		ExternalReference:   req.ExternalReference,
		BackURLs:            preferenceBackURLs(req.BackURLs),
		StatementDescriptor: req.StatementDescriptor,
	}
	for _, item := range req.Items {
		body.Items = append(body.Items, preferenceItem{
			ID:         item.ID,
			Title:      item.Title,
			Quantity:   item.Qty,
			UnitPrice:  item.UnitPrice,
			CurrencyID: item.Currency,
			PictureURL: item.PictureURL,
		})
	}
	if req.AutoReturn {
		body.AutoReturn = "approved"
	}

	var resp preferenceCreateResponse
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", &body, &resp); err != nil {
		return domain.Intent{}, fmt.Errorf("create preference: %w", err)
	}
	if resp.ID == "" || resp.InitPoint == "" {
		return domain.Intent{}, fmt.Errorf("create preference: processor returned incomplete response")
	}

	return domain.Intent{
		ID:                 resp.ID,
		RedirectURL:        resp.InitPoint,
		SandboxRedirectURL: resp.SandboxInitPoint,
	}, nil
}

// GetPayment возвращает авторитетный статус платежа.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (domain.PaymentInfo, error) {
	if paymentID == "" {
		return domain.PaymentInfo{}, domain.ErrPaymentIDRequired
	}

	var resp paymentGetResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return domain.PaymentInfo{}, domain.ErrPaymentNotFound
		}
		return domain.PaymentInfo{}, fmt.Errorf("get payment %s: %w", paymentID, err)
	}

	return resp.toPaymentInfo(paymentID), nil
}

// GetIntent возвращает намерение вместе с metadata.
func (c *Client) GetIntent(ctx context.Context, intentID string) (domain.IntentInfo, error) {
	if intentID == "" {
		return domain.IntentInfo{}, domain.ErrIntentIDRequired
	}

	var resp preferenceGetResponse
	if err := c.do(ctx, http.MethodGet, "/checkout/preferences/"+intentID, nil, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return domain.IntentInfo{}, domain.ErrIntentNotFound
		}
		return domain.IntentInfo{}, fmt.Errorf("get preference %s: %w", intentID, err)
	}

	return domain.IntentInfo{
		ID:    resp.ID,
		Draft: resp.Metadata.OrderDraft,
	}, nil
}

// errNotFound — внутренний маркер 404 от процессинга.
var errNotFound = errors.New("processor entity not found")

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(log.Fields{
			"method": method,
			"path":   path,
		}).Warn("processor request failed")
		return fmt.Errorf("%w: %v", domain.ErrProcessorUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrProcessorUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: processor responded %d", domain.ErrProcessorUnavailable, resp.StatusCode)
	default:
		// 4xx кроме 404 — отказ процессинга по содержанию запроса, повтор не поможет.
		return fmt.Errorf("processor rejected request: status %d: %s", resp.StatusCode, truncate(payload, 256))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, limit int) string {
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}

var _ domain.PaymentProcessor = (*Client)(nil)
