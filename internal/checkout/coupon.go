package checkout

import (
	"strings"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

const (
	// CouponFlatDiscount даёт фиксированную скидку на покупку.
	CouponFlatDiscount = "DESCUENTO10"
	// CouponFreeShipping компенсирует стоимость доставки.
	CouponFreeShipping = "ENVIOGRATIS"

	flatDiscountAmount = 10000
)

// ApplyCoupon возвращает купон по коду или ErrCouponInvalid.
// Код нормализуется в верхний регистр, как вводят покупатели.
func ApplyCoupon(code string, shippingCost int64) (*domain.Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, domain.ErrCouponInvalid
	}

	switch normalized {
	case CouponFlatDiscount:
		return &domain.Coupon{Code: normalized, Amount: flatDiscountAmount}, nil
	case CouponFreeShipping:
		return &domain.Coupon{Code: normalized, Amount: shippingCost}, nil
	default:
		return nil, domain.ErrCouponInvalid
	}
}

// ShippingCost возвращает стоимость выбранной доставки: самовывоз бесплатный,
// курьер стоит фиксированную сумму из конфигурации.
func ShippingCost(method domain.ShippingMethod, courierCost int64) int64 {
	if method == domain.ShippingCourier {
		return courierCost
	}
	return 0
}
