package checkout_test

import (
	"errors"
	"testing"

	"github.com/Nikias-Tacain/dealdress-page/internal/checkout"
	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

func TestApplyCoupon_FlatDiscount(t *testing.T) {
	coupon, err := checkout.ApplyCoupon("descuento10", 0)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if coupon.Code != checkout.CouponFlatDiscount {
		t.Fatalf("expected normalized code, got %s", coupon.Code)
	}
	if coupon.Amount <= 0 {
		t.Fatalf("expected positive discount, got %d", coupon.Amount)
	}
}

func TestApplyCoupon_FreeShippingMatchesCost(t *testing.T) {
	coupon, err := checkout.ApplyCoupon(" ENVIOGRATIS ", 800)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if coupon.Amount != 800 {
		t.Fatalf("expected discount equal to shipping cost, got %d", coupon.Amount)
	}
}

func TestApplyCoupon_Unknown(t *testing.T) {
	for _, code := range []string{"", "NOPE", "descuento"} {
		if _, err := checkout.ApplyCoupon(code, 0); !errors.Is(err, domain.ErrCouponInvalid) {
			t.Fatalf("expected ErrCouponInvalid for %q, got %v", code, err)
		}
	}
}

func TestShippingCost(t *testing.T) {
	if got := checkout.ShippingCost(domain.ShippingPickup, 800); got != 0 {
		t.Fatalf("pickup must be free, got %d", got)
	}
	if got := checkout.ShippingCost(domain.ShippingCourier, 800); got != 800 {
		t.Fatalf("expected courier cost 800, got %d", got)
	}
}
