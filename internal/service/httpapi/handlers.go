package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/Nikias-Tacain/dealdress-page/internal/checkout"
	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
	"github.com/Nikias-Tacain/dealdress-page/internal/service/intent"
	"github.com/Nikias-Tacain/dealdress-page/internal/service/reconcile"
)

// Options задаёт параметры оформления, приходящие из конфигурации.
type Options struct {
	// CourierShippingCost — фиксированная стоимость курьерской доставки.
	CourierShippingCost int64
}

// Handler обрабатывает HTTP-запросы витрины: создание платёжного намерения,
// финализацию после возврата покупателя, webhook процессинга и чтение заказа.
type Handler struct {
	intents   *intent.Service
	reconcile *reconcile.Service
	orders    domain.OrderRepository
	opts      Options
	logger    *log.Entry
}

// NewHandler конструирует обработчик с зависимостями.
func NewHandler(intents *intent.Service, reconcileSvc *reconcile.Service, orders domain.OrderRepository, opts Options, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}
	return &Handler{
		intents:   intents,
		reconcile: reconcileSvc,
		orders:    orders,
		opts:      opts,
		logger:    logger,
	}
}

// RegisterRoutes подключает маршруты API к роутеру.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/checkout/draft", h.QuoteDraft)
		api.POST("/checkout/preference", h.CreatePreference)
		api.GET("/checkout/finalize", h.Finalize)
		api.POST("/checkout/webhook", h.Webhook)
		api.GET("/orders/:number", h.GetOrder)
	}
}

// quoteDraftRequest — состояние корзины и формы для серверного расчёта чека.
type quoteDraftRequest struct {
	Items          []domain.DraftItem    `json:"items"`
	Buyer          domain.Buyer          `json:"buyer"`
	ShippingMethod domain.ShippingMethod `json:"shippingMethod"`
	CouponCode     string                `json:"couponCode"`
}

// QuoteDraft собирает черновик заказа на сервере: стоимость доставки и купон
// считаются здесь, а не в браузере. Checkout-страница вызывает его перед
// созданием намерения, чтобы показать покупателю итог, который пройдёт
// пересчёт при реконсиляции.
func (h *Handler) QuoteDraft(c *gin.Context) {
	var req quoteDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	shippingCost := checkout.ShippingCost(req.ShippingMethod, h.opts.CourierShippingCost)

	var coupon *domain.Coupon
	if req.CouponCode != "" {
		applied, err := checkout.ApplyCoupon(req.CouponCode, shippingCost)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "coupon code is not valid", "field": "coupon"})
			return
		}
		coupon = applied
	}

	shipping := domain.Shipping{
		Method:     req.ShippingMethod,
		Cost:       shippingCost,
		PostalCode: req.Buyer.PostalCode,
	}
	draft, err := checkout.BuildDraft(req.Items, req.Buyer, shipping, coupon)
	if err != nil {
		if verr, ok := domain.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orderDraft": draft})
}

// createPreferenceRequest повторяет форму запроса checkout-страницы:
// черновик заказа едет внутри metadata.
type createPreferenceRequest struct {
	Buyer    domain.Buyer       `json:"buyer"`
	Items    []domain.DraftItem `json:"items"`
	Metadata struct {
		OrderDraft *domain.OrderDraft `json:"orderDraft"`
	} `json:"metadata"`
}

// CreatePreference создаёт платёжное намерение и возвращает redirect-адреса.
func (h *Handler) CreatePreference(c *gin.Context) {
	var req createPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Metadata.OrderDraft == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metadata.orderDraft is required"})
		return
	}

	created, err := h.intents.Create(c.Request.Context(), *req.Metadata.OrderDraft)
	if err != nil {
		if verr, ok := domain.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
			return
		}
		if errors.Is(err, domain.ErrProcessorCredentialMissing) {
			h.logger.Error("processor credential is not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment processor is not configured"})
			return
		}
		h.logger.WithError(err).Error("create preference failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create preference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                 created.ID,
		"init_point":         created.RedirectURL,
		"sandbox_init_point": created.SandboxRedirectURL,
	})
}

// Finalize вызывается страницами возврата. Параметры приходят из query-строки
// редиректа процессинга; status — только подсказка, авторитетный статус
// сервис запрашивает сам.
func (h *Handler) Finalize(c *gin.Context) {
	paymentID := c.Query("payment_id")
	statusHint := c.Query("status")
	intentID := c.Query("preference_id")

	if paymentID == "" || intentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_id and preference_id are required"})
		return
	}

	result, err := h.reconcile.Reconcile(c.Request.Context(), paymentID, statusHint, intentID)
	if err != nil {
		h.respondReconcileError(c, err)
		return
	}

	h.respondReconcileResult(c, result)
}

// webhookNotification — уведомление процессинга о платеже. Идентификатор
// приходит то числом, то строкой, поэтому поле нетипизировано.
type webhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID any `json:"id"`
	} `json:"data"`
}

// Webhook принимает асинхронное server-to-server уведомление процессинга и
// прогоняет его через ту же реконсиляцию, что и возврат покупателя. Ответ
// не-2xx заставляет процессинг повторить доставку, поэтому он возвращается
// только для временных сбоев.
func (h *Handler) Webhook(c *gin.Context) {
	var notification webhookNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification body"})
		return
	}

	if notification.Type != "payment" {
		c.JSON(http.StatusOK, gin.H{"ok": true, "ignored": true})
		return
	}

	paymentID := stringifyID(notification.Data.ID)
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notification data.id is required"})
		return
	}

	result, err := h.reconcile.Reconcile(c.Request.Context(), paymentID, "", "")
	if err != nil {
		if domain.IsRetryable(err) {
			h.logger.WithError(err).WithField("payment_id", paymentID).Warn("webhook reconciliation failed, processor will redeliver")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "temporary failure"})
			return
		}
		// Невосстановимые случаи подтверждаем, чтобы процессинг не
		// долбил повторами: исход не изменится.
		h.logger.WithError(err).WithField("payment_id", paymentID).Error("webhook reconciliation failed permanently")
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": "not reconcilable"})
		return
	}

	h.respondReconcileResult(c, result)
}

// GetOrder возвращает заказ по номеру для страницы чека.
func (h *Handler) GetOrder(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order number must be numeric"})
		return
	}

	order, err := h.orders.FindByNumber(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.logger.WithError(err).WithField("order_number", number).Error("order lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// respondReconcileResult отвечает на успешные исходы. Повтор и свежее создание
// дают одну форму ответа, различается только флаг already.
func (h *Handler) respondReconcileResult(c *gin.Context, result reconcile.Result) {
	switch result.Status {
	case reconcile.StatusSkipped:
		c.JSON(http.StatusOK, gin.H{"ok": true, "skipped": true, "reason": result.Reason})
	case reconcile.StatusAlreadyReconciled:
		c.JSON(http.StatusOK, gin.H{
			"ok":          true,
			"already":     true,
			"orderId":     result.Order.ID,
			"orderNumber": result.Order.Number,
			"order":       result.Order,
		})
	case reconcile.StatusCreated:
		c.JSON(http.StatusOK, gin.H{
			"ok":          true,
			"orderId":     result.Order.ID,
			"orderNumber": result.Order.Number,
			"order":       result.Order,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected reconciliation result"})
	}
}

func (h *Handler) respondReconcileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrPaymentIDRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDraftMissing):
		// Дефект целостности данных выше по потоку; повтор не поможет.
		c.JSON(http.StatusBadRequest, gin.H{"error": "metadata.orderDraft not found", "retryable": false})
	case domain.IsRetryable(err):
		h.logger.WithError(err).Error("reconciliation failed with a transient error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "temporary failure, please retry", "retryable": true})
	default:
		if verr, ok := domain.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field, "retryable": false})
			return
		}
		h.logger.WithError(err).Error("reconciliation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to finalize order"})
	}
}

func stringifyID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}
