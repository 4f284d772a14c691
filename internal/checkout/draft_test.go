package checkout_test

import (
	"testing"

	"github.com/Nikias-Tacain/dealdress-page/internal/checkout"
	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

func cartItems() []domain.DraftItem {
	return []domain.DraftItem{
		{ID: "vestido-1", Title: "Vestido Noche", Price: 1500, Qty: 1, Size: "M"},
		{ID: "remera-2", Title: "Remera Basica", Price: 250, Qty: 2},
	}
}

func buyer() domain.Buyer {
	return domain.Buyer{
		Name:  "Ana Perez",
		Email: "ana@example.com",
		Phone: "1155550000",
	}
}

func pickup() domain.Shipping {
	return domain.Shipping{Method: domain.ShippingPickup, Cost: 0}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	verr, ok := domain.AsValidationError(err)
	if !ok {
		t.Fatalf("expected a validation error, got %v", err)
	}
	return verr.Field
}

func TestBuildDraft_OK(t *testing.T) {
	draft, err := checkout.BuildDraft(cartItems(), buyer(), pickup(), nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if draft.Totals.Subtotal != 2000 {
		t.Fatalf("expected subtotal 2000, got %d", draft.Totals.Subtotal)
	}
	if draft.Totals.Total != 2000 {
		t.Fatalf("expected total 2000, got %d", draft.Totals.Total)
	}
	if errs := draft.ValidateTotals(); len(errs) != 0 {
		t.Fatalf("built draft must pass recomputation, got %v", errs)
	}
}

func TestBuildDraft_TrimsBuyerFields(t *testing.T) {
	b := buyer()
	b.Name = "  Ana Perez  "
	b.Email = " ana@example.com "

	draft, err := checkout.BuildDraft(cartItems(), b, pickup(), nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if draft.Buyer.Name != "Ana Perez" || draft.Buyer.Email != "ana@example.com" {
		t.Fatalf("buyer fields not trimmed: %+v", draft.Buyer)
	}
}

// Проверяем порядок валидации: первое нарушение побеждает.
func TestBuildDraft_ValidationOrder(t *testing.T) {
	t.Run("name first", func(t *testing.T) {
		b := buyer()
		b.Name = " "
		b.Email = "broken"
		_, err := checkout.BuildDraft(cartItems(), b, pickup(), nil)
		if got := fieldOf(t, err); got != "name" {
			t.Fatalf("expected field name, got %s", got)
		}
	})

	t.Run("email format", func(t *testing.T) {
		b := buyer()
		b.Email = "not-an-email"
		_, err := checkout.BuildDraft(cartItems(), b, pickup(), nil)
		if got := fieldOf(t, err); got != "email" {
			t.Fatalf("expected field email, got %s", got)
		}
	})

	t.Run("phone", func(t *testing.T) {
		b := buyer()
		b.Phone = ""
		_, err := checkout.BuildDraft(cartItems(), b, pickup(), nil)
		if got := fieldOf(t, err); got != "phone" {
			t.Fatalf("expected field phone, got %s", got)
		}
	})

	t.Run("items last", func(t *testing.T) {
		_, err := checkout.BuildDraft(nil, buyer(), pickup(), nil)
		if got := fieldOf(t, err); got != "items" {
			t.Fatalf("expected field items, got %s", got)
		}
	})
}

func TestBuildDraft_CourierRequiresAddress(t *testing.T) {
	courier := domain.Shipping{Method: domain.ShippingCourier, Cost: 800}

	_, err := checkout.BuildDraft(cartItems(), buyer(), courier, nil)
	if got := fieldOf(t, err); got != "address" {
		t.Fatalf("expected field address, got %s", got)
	}

	b := buyer()
	b.Address = "Av. Siempre Viva 742"
	b.City = "Buenos Aires"
	_, err = checkout.BuildDraft(cartItems(), b, courier, nil)
	if got := fieldOf(t, err); got != "postalCode" {
		t.Fatalf("expected field postalCode, got %s", got)
	}

	b.PostalCode = "1414"
	draft, err := checkout.BuildDraft(cartItems(), b, courier, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if draft.Totals.Total != 2800 {
		t.Fatalf("expected total 2800 with shipping, got %d", draft.Totals.Total)
	}
}

// Самовывоз не требует адресных полей даже когда они пустые.
func TestBuildDraft_PickupSkipsAddress(t *testing.T) {
	if _, err := checkout.BuildDraft(cartItems(), buyer(), pickup(), nil); err != nil {
		t.Fatalf("pickup must not require address: %v", err)
	}
}

func TestCalcTotals_ClampsAtZero(t *testing.T) {
	totals := checkout.CalcTotals(cartItems(), 5000, 0)
	if totals.Total != 0 {
		t.Fatalf("expected clamped total 0, got %d", totals.Total)
	}
	if totals.Subtotal != 2000 || totals.Discount != 5000 {
		t.Fatalf("components must stay untouched: %+v", totals)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "ana.perez@mail.example.com"}
	invalid := []string{"", "a@b", "a b@c.co", "@b.co", "a@.co"}

	for _, v := range valid {
		if !checkout.IsValidEmail(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	for _, v := range invalid {
		if checkout.IsValidEmail(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}
