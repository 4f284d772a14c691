package payments

import (
	"context"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

// disabledProcessor подставляется вместо клиента, когда токен доступа
// не настроен. Сервис поднимается, но любая операция checkout отвечает
// ошибкой конфигурации вместо похода в процессинг.
type disabledProcessor struct{}

// NewDisabled возвращает процессор-заглушку без учётных данных.
func NewDisabled() domain.PaymentProcessor {
	return disabledProcessor{}
}

func (disabledProcessor) CreateIntent(context.Context, domain.IntentRequest) (domain.Intent, error) {
	return domain.Intent{}, domain.ErrProcessorCredentialMissing
}

func (disabledProcessor) GetPayment(context.Context, string) (domain.PaymentInfo, error) {
	return domain.PaymentInfo{}, domain.ErrProcessorCredentialMissing
}

func (disabledProcessor) GetIntent(context.Context, string) (domain.IntentInfo, error) {
	return domain.IntentInfo{}, domain.ErrProcessorCredentialMissing
}

var _ domain.PaymentProcessor = disabledProcessor{}
