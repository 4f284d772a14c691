package kafka

import "time"

// EventType определяет тип события магазина.
type EventType string

const (
	// EventTypeOrderCreated — реконсиляция сохранила новый заказ.
	EventTypeOrderCreated EventType = "order.created"
	// EventTypeIntentCreated — создано платёжное намерение, покупатель ушёл на оплату.
	EventTypeIntentCreated EventType = "checkout.intent_created"
)

// Topics для Kafka.
const (
	TopicOrderEvents = "dealdress.order.events"
)

// OrderEvent представляет событие заказа для подписчиков (уведомления, аналитика).
type OrderEvent struct {
	EventType   EventType `json:"event_type"`
	OrderID     string    `json:"order_id"`
	OrderNumber int       `json:"order_number"`
	PaymentID   string    `json:"payment_id"`
	BuyerEmail  string    `json:"buyer_email"`
	Total       int64     `json:"total"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewOrderCreatedEvent создаёт событие о сохранённом заказе.
func NewOrderCreatedEvent(orderID string, orderNumber int, paymentID, buyerEmail string, total int64) *OrderEvent {
	return &OrderEvent{
		EventType:   EventTypeOrderCreated,
		OrderID:     orderID,
		OrderNumber: orderNumber,
		PaymentID:   paymentID,
		BuyerEmail:  buyerEmail,
		Total:       total,
		Timestamp:   time.Now(),
	}
}
