package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
	"github.com/Nikias-Tacain/dealdress-page/internal/messaging/kafka"
	"github.com/Nikias-Tacain/dealdress-page/internal/metrics"
)

// Status описывает исход реконсиляции.
type Status string

const (
	// StatusCreated — заказ сохранён этим вызовом.
	StatusCreated Status = "created"
	// StatusAlreadyReconciled — заказ для этого платежа уже существовал.
	// Ответ неотличим от свежего создания: endpoint безопасно вызывать любое
	// число раз.
	StatusAlreadyReconciled Status = "already"
	// StatusSkipped — платёж не одобрен, заказ не создаётся. Это не сбой.
	StatusSkipped Status = "skipped"
)

// Result — терминальный результат успешного прохода реконсиляции.
type Result struct {
	Status Status
	Reason string
	Order  domain.Order
}

const maxNumberAttempts = 10

// Service превращает одобренный платёж и встроенный в намерение черновик
// в ровно один сохранённый заказ. Каждый вызов — независимая детерминированная
// оценка внешнего состояния; персистентной машины состояний нет, корректность
// при конкурентных вызовах обеспечивает create-if-absent хранилища.
type Service struct {
	orders    domain.OrderRepository
	numbers   domain.OrderNumberRepository
	processor domain.PaymentProcessor
	outbox    domain.OutboxRepository
	logger    *log.Entry
	metrics   *metrics.CheckoutMetrics

	// randNumber переопределяется в тестах для детерминированных номеров.
	randNumber func() int
}

// NewService конструирует сервис с зависимостями. outbox может быть nil —
// тогда события заказов не публикуются.
func NewService(
	orders domain.OrderRepository,
	numbers domain.OrderNumberRepository,
	processor domain.PaymentProcessor,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	svc := newService(orders, numbers, processor, outbox, logger)
	svc.metrics = metrics.NewCheckoutMetrics()
	return svc
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	orders domain.OrderRepository,
	numbers domain.OrderNumberRepository,
	processor domain.PaymentProcessor,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	return newService(orders, numbers, processor, outbox, logger)
}

func newService(
	orders domain.OrderRepository,
	numbers domain.OrderNumberRepository,
	processor domain.PaymentProcessor,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "reconcile-service")
	}
	min, max := domain.OrderNumberRange()
	return &Service{
		orders:    orders,
		numbers:   numbers,
		processor: processor,
		outbox:    outbox,
		logger:    logger,
		randNumber: func() int {
			return min + rand.Intn(max-min+1)
		},
	}
}

// Reconcile выполняет один проход: проверка платежа → идемпотентность →
// извлечение черновика → сохранение заказа. statusHint — значение из
// query-строки возврата; ему нельзя верить в одиночку, он используется только
// как дополнительный сигнал отказа и никогда — как сигнал одобрения.
// intentID может быть пустым на webhook-пути: тогда черновик читается из
// metadata самого платежа.
func (s *Service) Reconcile(ctx context.Context, paymentID, statusHint, intentID string) (Result, error) {
	start := time.Now()
	result, err := s.reconcile(ctx, paymentID, statusHint, intentID)
	if s.metrics != nil {
		label := metrics.ReconcileResultFailed
		if err == nil {
			label = string(result.Status)
		}
		s.metrics.RecordReconcile(label, time.Since(start))
	}
	return result, err
}

func (s *Service) reconcile(ctx context.Context, paymentID, statusHint, intentID string) (Result, error) {
	if paymentID == "" {
		return Result{}, domain.ErrPaymentIDRequired
	}

	logger := s.logger.WithFields(log.Fields{
		"payment_id": paymentID,
		"intent_id":  intentID,
	})

	// Шаг 1: авторитетный статус платежа. Заказ создаётся только когда
	// процессинг подтверждает одобрение; hint способен лишь отклонить.
	payment, err := s.processor.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			logger.Warn("payment unknown to processor, skipping")
			return Result{Status: StatusSkipped, Reason: "payment not found"}, nil
		}
		logger.WithError(err).Error("failed to verify payment status")
		return Result{}, fmt.Errorf("verify payment: %w", err)
	}

	if payment.Status != domain.PaymentApproved {
		logger.WithField("status", payment.Status).Info("payment not approved, no order created")
		return Result{Status: StatusSkipped, Reason: "payment not approved"}, nil
	}
	if statusHint != "" && statusHint != domain.PaymentApproved {
		logger.WithField("status_hint", statusHint).Warn("status hint contradicts approval, skipping")
		return Result{Status: StatusSkipped, Reason: "payment not approved"}, nil
	}

	// Шаг 2: идемпотентность. Повтор и первый успех возвращают одинаковую
	// форму ответа, вызывающий не может их различить.
	existing, err := s.orders.FindByPaymentID(ctx, paymentID)
	if err == nil {
		logger.WithField("order_number", existing.Number).Info("payment already reconciled")
		return Result{Status: StatusAlreadyReconciled, Order: existing}, nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		logger.WithError(err).Error("idempotency check failed")
		return Result{}, fmt.Errorf("idempotency check: %w", err)
	}

	// Шаг 3: черновик из metadata намерения; намерение запрашивается только
	// после промаха идемпотентности, чтобы не дёргать процессинг на повторе.
	draft, err := s.retrieveDraft(ctx, payment, intentID)
	if err != nil {
		logger.WithError(err).Error("failed to retrieve order draft")
		return Result{}, err
	}

	// Шаг 4: пересчёт сумм. Черновик собран клиентом; арифметике браузера
	// на слово не верим.
	if errs := draft.ValidateTotals(); len(errs) > 0 {
		logger.WithError(errs[0]).Error("draft totals failed server-side recomputation")
		return Result{}, domain.NewValidationError("orderDraft", errs[0].Error())
	}

	// Шаг 5: номер и запись. Вставка — точка фиксации; дубликат на вставке
	// означает, что конкурентный вызов успел первым.
	number, err := s.allocateNumber(ctx)
	if err != nil {
		logger.WithError(err).Error("failed to allocate order number")
		return Result{}, err
	}

	order := domain.Order{
		Number:   number,
		Items:    draft.Items,
		Buyer:    draft.Buyer,
		Shipping: draft.Shipping,
		Totals:   draft.Totals,
		Coupon:   draft.Coupon,
		Status:   domain.OrderStatusApproved,
		PaymentRef: domain.PaymentRef{
			PaymentID:       paymentID,
			IntentID:        intentID,
			PaymentMethod:   payment.PaymentMethod,
			PaymentType:     payment.PaymentType,
			ProcessorStatus: payment.Status,
			StatusDetail:    payment.StatusDetail,
			Amount:          payment.Amount,
		},
		CreatedAt: time.Now().UTC(),
	}
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return Result{}, fmt.Errorf("order invariants violated: %w", errs[0])
	}

	saved, err := s.orders.Insert(ctx, order)
	if err != nil {
		if errors.Is(err, domain.ErrOrderAlreadyExists) {
			return s.loadConcurrentWinner(ctx, paymentID, logger)
		}
		logger.WithError(err).Error("failed to persist order")
		return Result{}, fmt.Errorf("persist order: %w", err)
	}

	s.enqueueOrderCreated(saved, logger)
	logger.WithFields(log.Fields{
		"order_id":     saved.ID,
		"order_number": saved.Number,
		"total":        saved.Totals.Total,
	}).Info("order reconciled")

	return Result{Status: StatusCreated, Order: saved}, nil
}

// retrieveDraft извлекает черновик: из намерения, когда его идентификатор
// известен, иначе из metadata платежа (процессинг копирует metadata намерения
// в платёж — этим пользуется webhook-путь).
func (s *Service) retrieveDraft(ctx context.Context, payment domain.PaymentInfo, intentID string) (domain.OrderDraft, error) {
	if intentID == "" {
		if payment.Draft == nil {
			return domain.OrderDraft{}, domain.ErrDraftMissing
		}
		return *payment.Draft, nil
	}

	info, err := s.processor.GetIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, domain.ErrIntentNotFound) {
			return domain.OrderDraft{}, domain.ErrDraftMissing
		}
		return domain.OrderDraft{}, fmt.Errorf("retrieve intent: %w", err)
	}
	if info.Draft == nil {
		return domain.OrderDraft{}, domain.ErrDraftMissing
	}
	return *info.Draft, nil
}

// allocateNumber подбирает свободный шестизначный номер через create-if-absent
// резервацию с ограниченным числом попыток на случай коллизий.
func (s *Service) allocateNumber(ctx context.Context) (int, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number := s.randNumber()
		err := s.numbers.Reserve(ctx, number)
		if err == nil {
			return number, nil
		}
		if errors.Is(err, domain.ErrOrderNumberTaken) {
			continue
		}
		return 0, fmt.Errorf("reserve order number: %w", err)
	}
	return 0, domain.ErrOrderNumberExhausted
}

func (s *Service) loadConcurrentWinner(ctx context.Context, paymentID string, logger *log.Entry) (Result, error) {
	winner, err := s.orders.FindByPaymentID(ctx, paymentID)
	if err != nil {
		logger.WithError(err).Error("duplicate insert detected but winner not readable")
		return Result{}, fmt.Errorf("read concurrent order: %w", err)
	}
	logger.WithField("order_number", winner.Number).Info("concurrent reconciliation won the insert")
	return Result{Status: StatusAlreadyReconciled, Order: winner}, nil
}

// enqueueOrderCreated ставит событие о заказе в outbox. Публикация best-effort:
// заказ уже зафиксирован, сбой очереди не должен провалить вызов.
func (s *Service) enqueueOrderCreated(order domain.Order, logger *log.Entry) {
	if s.outbox == nil {
		return
	}

	event := kafka.NewOrderCreatedEvent(order.ID, order.Number, order.PaymentRef.PaymentID, order.Buyer.Email, order.Totals.Total)
	payload, err := json.Marshal(event)
	if err != nil {
		logger.WithError(err).Warn("failed to marshal order event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     string(kafka.EventTypeOrderCreated),
		Payload:       payload,
	}); err != nil {
		logger.WithError(err).Warn("failed to enqueue order event")
	}
}
