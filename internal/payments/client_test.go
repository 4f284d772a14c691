package payments_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
	"github.com/Nikias-Tacain/dealdress-page/internal/payments"
)

func testRequest() domain.IntentRequest {
	draft := domain.OrderDraft{
		Items: []domain.DraftItem{
			{ID: "vestido-1", Title: "Vestido Noche", Price: 1500, Qty: 1},
		},
		Buyer: domain.Buyer{
			Name:  "Ana Perez",
			Email: "ana@example.com",
			Phone: "1155550000",
		},
		Shipping: domain.Shipping{Method: domain.ShippingPickup},
		Totals:   domain.Totals{Subtotal: 1500, Total: 1500},
	}
	return domain.IntentRequest{
		Items: []domain.IntentItem{
			{ID: "vestido-1", Title: "Vestido Noche", Qty: 1, UnitPrice: 1500, Currency: "ARS"},
		},
		Payer:             draft.Buyer,
		Draft:             draft,
		ExternalReference: "DEAL-test",
		BackURLs: domain.BackURLs{
			Success: "https://shop.example/checkout/success",
			Pending: "https://shop.example/checkout/pending",
			Failure: "https://shop.example/checkout/failure",
		},
		AutoReturn:          true,
		StatementDescriptor: "DEALDRESS",
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*payments.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := payments.NewClient("TEST-token", payments.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	return client, server
}

func TestNewClient_RequiresToken(t *testing.T) {
	if _, err := payments.NewClient(""); !errors.Is(err, domain.ErrProcessorCredentialMissing) {
		t.Fatalf("expected ErrProcessorCredentialMissing, got %v", err)
	}
}

func TestCreateIntent(t *testing.T) {
	var captured map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/checkout/preferences" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer TEST-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if r.Header.Get("X-Idempotency-Key") == "" {
			t.Error("write request must carry an idempotency key")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pref-9","init_point":"https://mp.example/init","sandbox_init_point":"https://mp.example/sandbox"}`))
	})

	created, err := client.CreateIntent(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}
	if created.ID != "pref-9" || created.RedirectURL != "https://mp.example/init" {
		t.Fatalf("unexpected intent: %+v", created)
	}
	if created.SandboxRedirectURL != "https://mp.example/sandbox" {
		t.Fatalf("unexpected sandbox url: %s", created.SandboxRedirectURL)
	}

	metadata, ok := captured["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("metadata missing in request body: %v", captured)
	}
	if _, ok := metadata["order_draft"]; !ok {
		t.Fatal("order draft must travel via metadata.order_draft")
	}
	if captured["auto_return"] != "approved" {
		t.Fatalf("expected auto_return approved, got %v", captured["auto_return"])
	}
}

func TestCreateIntent_IncompleteResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"pref-9"}`))
	})

	if _, err := client.CreateIntent(context.Background(), testRequest()); err == nil {
		t.Fatal("missing init_point must be an error")
	}
}

func TestGetPayment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/pay-9" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"status": "approved",
			"status_detail": "accredited",
			"payment_method": {"type": "credit_card"},
			"payment_type_id": "credit_card",
			"transaction_amount": 1500,
			"metadata": {"order_draft": {"items":[{"id":"vestido-1","title":"Vestido Noche","price":1500,"qty":1}],"totals":{"subtotal":1500,"discount":0,"total":1500}}}
		}`))
	})

	payment, err := client.GetPayment(context.Background(), "pay-9")
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if payment.ID != "pay-9" || payment.Status != "approved" || payment.StatusDetail != "accredited" {
		t.Fatalf("unexpected payment: %+v", payment)
	}
	if payment.Amount != 1500 {
		t.Fatalf("expected amount 1500, got %d", payment.Amount)
	}
	if payment.Draft == nil || payment.Draft.Totals.Total != 1500 {
		t.Fatalf("draft must be decoded from payment metadata: %+v", payment.Draft)
	}
}

func TestGetPayment_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := client.GetPayment(context.Background(), "pay-404"); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestGetIntent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkout/preferences/pref-9" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"pref-9","metadata":{"order_draft":{"totals":{"subtotal":1500,"discount":0,"total":1500}}}}`))
	})

	info, err := client.GetIntent(context.Background(), "pref-9")
	if err != nil {
		t.Fatalf("get intent failed: %v", err)
	}
	if info.ID != "pref-9" || info.Draft == nil {
		t.Fatalf("unexpected intent info: %+v", info)
	}
}

func TestGetIntent_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := client.GetIntent(context.Background(), "pref-404"); !errors.Is(err, domain.ErrIntentNotFound) {
		t.Fatalf("expected ErrIntentNotFound, got %v", err)
	}
}

func TestServerErrorsAreRetryable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetPayment(context.Background(), "pay-9")
	if !errors.Is(err, domain.ErrProcessorUnavailable) {
		t.Fatalf("expected ErrProcessorUnavailable, got %v", err)
	}
}

func TestClientErrorsAreNotRetryable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid items"}`))
	})

	_, err := client.CreateIntent(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected an error")
	}
	if domain.IsRetryable(err) {
		t.Fatalf("4xx must not be retryable, got %v", err)
	}
}

func TestNetworkErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client, err := payments.NewClient("TEST-token", payments.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}

	_, err = client.GetPayment(context.Background(), "pay-9")
	if !errors.Is(err, domain.ErrProcessorUnavailable) {
		t.Fatalf("expected ErrProcessorUnavailable, got %v", err)
	}
}

func TestDisabledProcessor(t *testing.T) {
	disabled := payments.NewDisabled()

	if _, err := disabled.CreateIntent(context.Background(), domain.IntentRequest{}); !errors.Is(err, domain.ErrProcessorCredentialMissing) {
		t.Fatalf("expected ErrProcessorCredentialMissing, got %v", err)
	}
	if _, err := disabled.GetPayment(context.Background(), "pay-1"); !errors.Is(err, domain.ErrProcessorCredentialMissing) {
		t.Fatalf("expected ErrProcessorCredentialMissing, got %v", err)
	}
}
