package intent_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
	"github.com/Nikias-Tacain/dealdress-page/internal/payments"
	"github.com/Nikias-Tacain/dealdress-page/internal/service/intent"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger.WithField("test", true)
}

func testDraft() domain.OrderDraft {
	return domain.OrderDraft{
		Items: []domain.DraftItem{
			{ID: "vestido-1", Title: "Vestido Noche", Price: 1500, Qty: 1, Size: "M", Color: "Negro"},
			{ID: "remera-2", Title: "Remera Basica", Price: 250, Qty: 2},
		},
		Buyer: domain.Buyer{
			Name:  "Ana Perez",
			Email: "ana@example.com",
			Phone: "1155550000",
		},
		Shipping: domain.Shipping{Method: domain.ShippingPickup, Cost: 0},
		Totals:   domain.Totals{Subtotal: 2000, Discount: 0, Total: 2000},
	}
}

func newService(processor *payments.MockProcessor, baseURL string) *intent.Service {
	return intent.NewServiceWithoutMetrics(processor, intent.Options{
		BaseURL:             baseURL,
		Currency:            "ARS",
		StatementDescriptor: "DEALDRESS",
	}, loggerForTests())
}

func TestCreate_EmbedsDraftInRequest(t *testing.T) {
	processor := payments.NewMockProcessor()
	svc := newService(processor, "https://dealdress.example")

	created, err := svc.Create(context.Background(), testDraft())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != "pref-1" || created.RedirectURL == "" {
		t.Fatalf("unexpected intent: %+v", created)
	}

	req := processor.LastCreateRequest
	if req.Draft.Totals.Total != 2000 {
		t.Fatalf("draft must travel inside the request, got %+v", req.Draft.Totals)
	}
	if len(req.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(req.Items))
	}
	if !strings.HasPrefix(req.ExternalReference, "DEAL-") {
		t.Fatalf("unexpected external reference %q", req.ExternalReference)
	}
	if req.StatementDescriptor != "DEALDRESS" {
		t.Fatalf("unexpected statement descriptor %q", req.StatementDescriptor)
	}
}

// Вариант товара должен быть виден покупателю на странице оплаты.
func TestCreate_LineItemsCarryVariant(t *testing.T) {
	processor := payments.NewMockProcessor()
	svc := newService(processor, "https://dealdress.example")

	if _, err := svc.Create(context.Background(), testDraft()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first := processor.LastCreateRequest.Items[0]
	if first.ID != "vestido-1|Negro|M" {
		t.Fatalf("unexpected line item id %q", first.ID)
	}
	if first.Title != "Vestido Noche - Talle M - Negro" {
		t.Fatalf("unexpected line item title %q", first.Title)
	}
	if first.Currency != "ARS" {
		t.Fatalf("unexpected currency %q", first.Currency)
	}

	second := processor.LastCreateRequest.Items[1]
	if second.ID != "remera-2" || second.Title != "Remera Basica" {
		t.Fatalf("items without variant must keep plain id/title: %+v", second)
	}
}

func TestCreate_AutoReturnOnlyForHTTPS(t *testing.T) {
	processor := payments.NewMockProcessor()

	svc := newService(processor, "https://dealdress.example")
	if _, err := svc.Create(context.Background(), testDraft()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !processor.LastCreateRequest.AutoReturn {
		t.Fatal("https base url must enable auto return")
	}

	svc = newService(processor, "http://localhost:8080")
	if _, err := svc.Create(context.Background(), testDraft()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if processor.LastCreateRequest.AutoReturn {
		t.Fatal("plain http base url must not enable auto return")
	}
}

func TestCreate_BackURLs(t *testing.T) {
	processor := payments.NewMockProcessor()
	svc := newService(processor, "https://dealdress.example/")

	if _, err := svc.Create(context.Background(), testDraft()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	urls := processor.LastCreateRequest.BackURLs
	if urls.Success != "https://dealdress.example/checkout/success" {
		t.Fatalf("unexpected success url %q", urls.Success)
	}
	if urls.Pending != "https://dealdress.example/checkout/pending" {
		t.Fatalf("unexpected pending url %q", urls.Pending)
	}
	if urls.Failure != "https://dealdress.example/checkout/failure" {
		t.Fatalf("unexpected failure url %q", urls.Failure)
	}
}

func TestCreate_RejectsInvalidTotals(t *testing.T) {
	processor := payments.NewMockProcessor()
	svc := newService(processor, "https://dealdress.example")

	draft := testDraft()
	draft.Totals.Total = 999

	_, err := svc.Create(context.Background(), draft)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if _, ok := domain.AsValidationError(err); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if processor.CreateCalls != 0 {
		t.Fatal("invalid draft must not reach the processor")
	}
}

func TestCreate_PropagatesProcessorErrors(t *testing.T) {
	processor := payments.NewMockProcessor()
	processor.CreateErr = domain.ErrProcessorUnavailable
	svc := newService(processor, "https://dealdress.example")

	_, err := svc.Create(context.Background(), testDraft())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !domain.IsRetryable(err) {
		t.Fatalf("processor outage must stay retryable through wrapping, got %v", err)
	}
}

func TestCreate_CredentialMissing(t *testing.T) {
	disabled := intent.NewServiceWithoutMetrics(payments.NewDisabled(), intent.Options{BaseURL: "https://dealdress.example"}, loggerForTests())

	_, err := disabled.Create(context.Background(), testDraft())
	if !errors.Is(err, domain.ErrProcessorCredentialMissing) {
		t.Fatalf("expected ErrProcessorCredentialMissing, got %v", err)
	}
}
