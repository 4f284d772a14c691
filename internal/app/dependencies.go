package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
	"github.com/Nikias-Tacain/dealdress-page/internal/payments"
	"github.com/Nikias-Tacain/dealdress-page/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Orders     domain.OrderRepository
	Numbers    domain.OrderNumberRepository
	OutboxRepo domain.OutboxRepository
	Processor  domain.PaymentProcessor
	Logger     *log.Entry
}

// NewDependencies создаёт зависимости для разработки и тестов:
// in-memory репозитории и мок процессинга вместо реального клиента.
func NewDependencies(logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	return &Dependencies{
		Orders:     memory.NewOrderRepository(),
		Numbers:    memory.NewOrderNumberRepository(),
		OutboxRepo: memory.NewOutboxRepository(),
		Processor:  payments.NewMockProcessor(),
		Logger:     logger,
	}
}
