package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

func validOrder() domain.Order {
	draft := validDraft()
	return domain.Order{
		ID:       "order-1",
		Number:   123456,
		Items:    draft.Items,
		Buyer:    draft.Buyer,
		Shipping: draft.Shipping,
		Totals:   draft.Totals,
		Status:   domain.OrderStatusApproved,
		PaymentRef: domain.PaymentRef{
			PaymentID:       "pay-1",
			IntentID:        "pref-1",
			ProcessorStatus: "approved",
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestOrderValidateInvariants_OK(t *testing.T) {
	order := validOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_NumberOutOfRange(t *testing.T) {
	order := validOrder()
	order.Number = 99999

	errs := order.ValidateInvariants()
	if len(errs) == 0 || !errors.Is(errs[0], domain.ErrOrderNumberInvalid) {
		t.Fatalf("expected ErrOrderNumberInvalid, got %v", errs)
	}
}

func TestOrderValidateInvariants_MissingPaymentID(t *testing.T) {
	order := validOrder()
	order.PaymentRef.PaymentID = ""

	errs := order.ValidateInvariants()
	if len(errs) == 0 || !errors.Is(errs[0], domain.ErrPaymentIDRequired) {
		t.Fatalf("expected ErrPaymentIDRequired, got %v", errs)
	}
}

func TestIsRetryable(t *testing.T) {
	if !domain.IsRetryable(domain.ErrProcessorUnavailable) {
		t.Fatal("processor unavailability must be retryable")
	}
	if !domain.IsRetryable(domain.ErrStoreUnavailable) {
		t.Fatal("store unavailability must be retryable")
	}
	if domain.IsRetryable(domain.ErrDraftMissing) {
		t.Fatal("missing draft must not be retryable")
	}
	if domain.IsRetryable(domain.NewValidationError("email", "bad")) {
		t.Fatal("validation errors must not be retryable")
	}
}
