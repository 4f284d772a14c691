package memory

import (
	"context"
	"sync"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

// numberRepositoryInMemory резервирует номера заказов в памяти.
type numberRepositoryInMemory struct {
	mu       sync.Mutex
	reserved map[int]struct{}
}

// NewOrderNumberRepository создаёт in-memory реализацию OrderNumberRepository.
func NewOrderNumberRepository() domain.OrderNumberRepository {
	return &numberRepositoryInMemory{
		reserved: make(map[int]struct{}),
	}
}

// Reserve занимает номер строго create-if-absent: повторная резервация
// того же номера возвращает ErrOrderNumberTaken.
func (r *numberRepositoryInMemory) Reserve(_ context.Context, number int) error {
	min, max := domain.OrderNumberRange()
	if number < min || number > max {
		return domain.ErrOrderNumberInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.reserved[number]; taken {
		return domain.ErrOrderNumberTaken
	}
	r.reserved[number] = struct{}{}
	return nil
}

var _ domain.OrderNumberRepository = (*numberRepositoryInMemory)(nil)
