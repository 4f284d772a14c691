package intent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
	"github.com/Nikias-Tacain/dealdress-page/internal/metrics"
)

// Options задаёт параметры создания платёжных намерений.
type Options struct {
	// BaseURL — адрес витрины для построения back_urls.
	BaseURL string
	// Currency — единственная поддерживаемая валюта магазина.
	Currency string
	// StatementDescriptor — строка в выписке покупателя.
	StatementDescriptor string
}

// Service создаёт платёжные намерения у процессинга, встраивая черновик заказа
// в metadata. Это единственный источник правды, который реконсиляция прочитает
// после оплаты: отдельной «ожидающей» записи в хранилище не создаётся.
type Service struct {
	processor domain.PaymentProcessor
	opts      Options
	logger    *log.Entry
	metrics   *metrics.CheckoutMetrics
}

// NewService конструирует сервис с зависимостями.
func NewService(processor domain.PaymentProcessor, opts Options, logger *log.Entry) *Service {
	svc := newService(processor, opts, logger)
	svc.metrics = metrics.NewCheckoutMetrics()
	return svc
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(processor domain.PaymentProcessor, opts Options, logger *log.Entry) *Service {
	return newService(processor, opts, logger)
}

func newService(processor domain.PaymentProcessor, opts Options, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "intent-service")
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Currency == "" {
		opts.Currency = "ARS"
	}
	return &Service{
		processor: processor,
		opts:      opts,
		logger:    logger,
	}
}

// Create создаёт намерение для черновика и возвращает redirect-адреса.
// После redirect контроль теряется до возвращения покупателя.
func (s *Service) Create(ctx context.Context, draft domain.OrderDraft) (domain.Intent, error) {
	start := time.Now()

	if errs := draft.ValidateTotals(); len(errs) > 0 {
		return domain.Intent{}, domain.NewValidationError("orderDraft", errs[0].Error())
	}

	req := domain.IntentRequest{
		Items:               s.lineItems(draft),
		Payer:               draft.Buyer,
		Draft:               draft,
		ExternalReference:   "DEAL-" + uuid.NewString(),
		BackURLs:            s.backURLs(),
		AutoReturn:          strings.HasPrefix(s.opts.BaseURL, "https://"),
		StatementDescriptor: s.opts.StatementDescriptor,
	}

	created, err := s.processor.CreateIntent(ctx, req)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordIntentFailed()
		}
		s.logger.WithError(err).WithField("external_reference", req.ExternalReference).
			Error("failed to create payment intent")
		return domain.Intent{}, fmt.Errorf("create payment intent: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordIntentCreated(time.Since(start))
	}
	s.logger.WithFields(log.Fields{
		"intent_id":          created.ID,
		"external_reference": req.ExternalReference,
		"total":              draft.Totals.Total,
	}).Info("payment intent created")

	return created, nil
}

// lineItems превращает позиции черновика в строки оплаты процессинга.
// Размер и цвет попадают в идентификатор и название строки, чтобы покупатель
// видел вариант товара на странице оплаты.
func (s *Service) lineItems(draft domain.OrderDraft) []domain.IntentItem {
	items := make([]domain.IntentItem, 0, len(draft.Items))
	for _, it := range draft.Items {
		items = append(items, domain.IntentItem{
			ID:         lineItemID(it),
			Title:      lineItemTitle(it),
			Qty:        it.Qty,
			UnitPrice:  it.Price,
			Currency:   s.opts.Currency,
			PictureURL: it.ImageURL,
		})
	}
	return items
}

func (s *Service) backURLs() domain.BackURLs {
	return domain.BackURLs{
		Success: s.opts.BaseURL + "/checkout/success",
		Pending: s.opts.BaseURL + "/checkout/pending",
		Failure: s.opts.BaseURL + "/checkout/failure",
	}
}

func lineItemID(it domain.DraftItem) string {
	id := it.ID
	if it.Color != "" {
		id += "|" + it.Color
	}
	if it.Size != "" {
		id += "|" + it.Size
	}
	return id
}

func lineItemTitle(it domain.DraftItem) string {
	title := it.Title
	if it.Size != "" {
		title += " - Talle " + it.Size
	}
	if it.Color != "" {
		title += " - " + it.Color
	}
	return title
}
