package domain

import (
	"context"
	"time"
)

// IntentRequest описывает запрос на создание платёжного намерения у процессинга.
type IntentRequest struct {
	// Items — строки оплаты, по одной на позицию корзины.
	Items []IntentItem
	// Payer — контактные данные плательщика.
	Payer Buyer
	// Draft — черновик заказа, встраиваемый в metadata намерения.
	// Процессинг выступает транзитным хранилищем черновика между созданием
	// намерения и завершением оплаты.
	Draft OrderDraft
	// ExternalReference — наш сквозной идентификатор попытки оформления.
	ExternalReference string
	// BackURLs — адреса возврата покупателя после оплаты.
	BackURLs BackURLs
	// AutoReturn включает автоматический возврат после одобрения платежа.
	// Процессинг принимает флаг только для https-адресов возврата.
	AutoReturn bool
	// StatementDescriptor — строка в выписке покупателя.
	StatementDescriptor string
}

// IntentItem — строка оплаты в валюте магазина.
type IntentItem struct {
	ID         string
	Title      string
	Qty        int
	UnitPrice  int64
	Currency   string
	PictureURL string
}

// BackURLs — три адреса возврата: успех, ожидание, отказ.
type BackURLs struct {
	Success string
	Pending string
	Failure string
}

// Intent — ответ процессинга на создание намерения.
type Intent struct {
	ID                 string
	RedirectURL        string
	SandboxRedirectURL string
}

// PaymentInfo — авторитетное состояние платежа по данным процессинга.
// Поля схемы перечислены явно: потребляем только то, что описано контрактом.
type PaymentInfo struct {
	ID            string
	Status        string
	StatusDetail  string
	PaymentMethod string
	PaymentType   string
	Amount        int64
	// Draft присутствует, когда процессинг копирует metadata намерения
	// в платёж; используется webhook-путём, где намерение неизвестно.
	Draft *OrderDraft
}

// IntentInfo — состояние намерения по данным процессинга.
type IntentInfo struct {
	ID    string
	Draft *OrderDraft
}

// PaymentApproved — статус одобренного платежа у процессинга.
const PaymentApproved = "approved"

// PaymentProcessor описывает контракт внешнего платёжного процессинга.
// Реализации обязаны транслировать транспортные сбои в ErrProcessorUnavailable,
// а отсутствие сущностей — в ErrPaymentNotFound/ErrIntentNotFound.
type PaymentProcessor interface {
	// CreateIntent создаёт платёжное намерение и возвращает redirect-адреса.
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
	// GetPayment возвращает авторитетный статус платежа.
	GetPayment(ctx context.Context, paymentID string) (PaymentInfo, error)
	// GetIntent возвращает намерение вместе с metadata.
	GetIntent(ctx context.Context, intentID string) (IntentInfo, error)
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxPublisher публикует события из outbox; реализация должна быть идемпотентной.
type OutboxPublisher interface {
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}
