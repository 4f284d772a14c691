package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
// Ключ карты — payment_id, поэтому create-if-absent по платежу получается
// естественно: одна запись на платёж под общим мьютексом.
type orderRepositoryInMemory struct {
	mu        sync.RWMutex
	byPayment map[string]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		byPayment: make(map[string]domain.Order),
	}
}

// Insert сохраняет новый заказ, если для этого платежа заказа ещё нет.
func (r *orderRepositoryInMemory) Insert(_ context.Context, order domain.Order) (domain.Order, error) {
	if order.PaymentRef.PaymentID == "" {
		return domain.Order{}, domain.ErrPaymentIDRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byPayment[order.PaymentRef.PaymentID]; exists {
		return domain.Order{}, domain.ErrOrderAlreadyExists
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	order.Items = append([]domain.DraftItem(nil), order.Items...)
	r.byPayment[order.PaymentRef.PaymentID] = order
	return order, nil
}

// FindByPaymentID возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) FindByPaymentID(_ context.Context, paymentID string) (domain.Order, error) {
	if paymentID == "" {
		return domain.Order{}, domain.ErrPaymentIDRequired
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.byPayment[paymentID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// FindByNumber возвращает заказ по человекочитаемому номеру.
func (r *orderRepositoryInMemory) FindByNumber(_ context.Context, number int) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.byPayment {
		if order.Number == number {
			return order, nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
