package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствия хотя бы одной позиции в черновике или заказе.
	ErrItemsRequired = errors.New("draft must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка отрицательной скидки.
	ErrDiscountNegative = errors.New("discount must be non-negative")
	// Ошибка отрицательной стоимости доставки.
	ErrShippingCostNegative = errors.New("shipping cost must be non-negative")
	// Ошибка несоответствия subtotal черновика пересчитанной сумме позиций.
	ErrSubtotalMismatch = errors.New("draft subtotal does not match items sum")
	// Ошибка несоответствия итога правилу total == max(0, subtotal - discount + shipping).
	ErrTotalMismatch = errors.New("draft total does not match computed total")
	// Ошибка некорректного номера заказа (вне шестизначного диапазона).
	ErrOrderNumberInvalid = errors.New("order number must be a six digit value")
	// Ошибка недопустимого статуса заказа: поток сохраняет только approved.
	ErrOrderStatusInvalid = errors.New("order status must be approved")
	// Ошибка отсутствующего идентификатора платежа.
	ErrPaymentIDRequired = errors.New("payment_id is required")
	// Ошибка отсутствующего идентификатора платёжного намерения.
	ErrIntentIDRequired = errors.New("preference_id is required")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists сигнализирует, что заказ с таким payment_id уже сохранён.
	// Это штатный исход повторной реконсиляции, а не сбой.
	ErrOrderAlreadyExists = errors.New("order for this payment already exists")
	// ErrOrderNumberTaken возвращается, если номер заказа уже зарезервирован.
	ErrOrderNumberTaken = errors.New("order number already reserved")
	// ErrOrderNumberExhausted — не удалось подобрать свободный номер за отведённые попытки.
	ErrOrderNumberExhausted = errors.New("unable to allocate a unique order number")
	// ErrProcessorCredentialMissing — не задан access token процессинга. Фатальная
	// ошибка конфигурации: оба входа обязаны отвечать 500, а не деградировать молча.
	ErrProcessorCredentialMissing = errors.New("payment processor access token is not configured")
	// ErrDraftMissing — в metadata платёжного намерения нет черновика заказа.
	// Это дефект целостности данных на стороне создания намерения, повтор не поможет.
	ErrDraftMissing = errors.New("intent metadata does not contain an order draft")
	// ErrPaymentNotFound — процессинг не знает платёж с таким идентификатором.
	ErrPaymentNotFound = errors.New("payment not found at processor")
	// ErrIntentNotFound — процессинг не знает намерение с таким идентификатором.
	ErrIntentNotFound = errors.New("payment intent not found at processor")
	// ErrProcessorUnavailable — временная ошибка процессинга (сеть, 5xx, таймаут).
	ErrProcessorUnavailable = errors.New("payment processor temporarily unavailable")
	// ErrStoreUnavailable — временная ошибка хранилища заказов.
	ErrStoreUnavailable = errors.New("order store temporarily unavailable")
	// ErrCouponInvalid — неизвестный код купона.
	ErrCouponInvalid = errors.New("coupon code is not valid")
	// ErrOutboxPublish — ошибка при публикации события из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// ValidationError описывает первую найденную ошибку данных покупателя или черновика.
// Field указывает конкретное поле, чтобы клиент мог подсветить его в форме.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NewValidationError создаёт ошибку валидации для конкретного поля.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AsValidationError извлекает ValidationError из цепочки ошибок.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// IsRetryable сообщает, имеет ли смысл повторить операцию вручную.
// Повторяемы только временные ошибки процессинга и хранилища.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrProcessorUnavailable) || errors.Is(err, ErrStoreUnavailable)
}
