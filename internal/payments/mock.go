package payments

import (
	"context"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

// MockProcessor — конфигурируемая заглушка PaymentProcessor для тестов.
type MockProcessor struct {
	CreateResult domain.Intent
	CreateErr    error
	Payment      domain.PaymentInfo
	PaymentErr   error
	Intent       domain.IntentInfo
	IntentErr    error

	CreateCalls  int
	PaymentCalls int
	IntentCalls  int

	// LastCreateRequest хранит последний запрос CreateIntent для проверок.
	LastCreateRequest domain.IntentRequest
}

// NewMockProcessor возвращает mock с успешным сценарием по умолчанию.
func NewMockProcessor() *MockProcessor {
	return &MockProcessor{
		CreateResult: domain.Intent{
			ID:                 "pref-1",
			RedirectURL:        "https://processor.test/init/pref-1",
			SandboxRedirectURL: "https://sandbox.processor.test/init/pref-1",
		},
		Payment: domain.PaymentInfo{ID: "pay-1", Status: domain.PaymentApproved},
		Intent:  domain.IntentInfo{ID: "pref-1"},
	}
}

// CreateIntent возвращает заранее настроенный результат и считает вызовы.
func (m *MockProcessor) CreateIntent(_ context.Context, req domain.IntentRequest) (domain.Intent, error) {
	m.CreateCalls++
	m.LastCreateRequest = req
	return m.CreateResult, m.CreateErr
}

// GetPayment возвращает настроенный статус платежа и считает вызовы.
func (m *MockProcessor) GetPayment(_ context.Context, _ string) (domain.PaymentInfo, error) {
	m.PaymentCalls++
	return m.Payment, m.PaymentErr
}

// GetIntent возвращает настроенное намерение и считает вызовы.
func (m *MockProcessor) GetIntent(_ context.Context, _ string) (domain.IntentInfo, error) {
	m.IntentCalls++
	return m.Intent, m.IntentErr
}

var _ domain.PaymentProcessor = (*MockProcessor)(nil)
