package checkout

import (
	"regexp"
	"strings"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

// emailPattern — упрощённая проверка: непустая локальная часть, домен с точкой.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail проверяет адрес по упрощённому правилу, без полного RFC.
func IsValidEmail(v string) bool {
	return emailPattern.MatchString(v)
}

// BuildDraft собирает неизменяемый черновик заказа из состояния корзины и
// данных формы. Чистая функция: никакого I/O, результат — значение.
//
// Валидация останавливается на первом нарушении в фиксированном порядке:
// имя → email → телефон → адресные поля (только для курьерской доставки) →
// позиции корзины. После любой правки данных вызывающий обязан собрать
// черновик заново.
func BuildDraft(items []domain.DraftItem, buyer domain.Buyer, shipping domain.Shipping, coupon *domain.Coupon) (domain.OrderDraft, error) {
	if err := validateBuyer(buyer, shipping.Method); err != nil {
		return domain.OrderDraft{}, err
	}
	if err := validateShipping(shipping); err != nil {
		return domain.OrderDraft{}, err
	}
	if err := validateItems(items); err != nil {
		return domain.OrderDraft{}, err
	}

	var discount int64
	if coupon != nil {
		if coupon.Amount < 0 {
			return domain.OrderDraft{}, domain.NewValidationError("coupon", "coupon amount must be non-negative")
		}
		discount = coupon.Amount
	}

	draft := domain.OrderDraft{
		Items:    append([]domain.DraftItem(nil), items...),
		Buyer:    trimBuyer(buyer),
		Shipping: shipping,
		Coupon:   coupon,
	}
	draft.Totals = CalcTotals(draft.Items, discount, shipping.Cost)

	return draft, nil
}

// CalcTotals считает суммы чека. Итог клампится в ноль: скидка больше суммы
// покупки — осознанное поведение, а не ошибка.
func CalcTotals(items []domain.DraftItem, discount, shippingCost int64) domain.Totals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Qty)
	}

	total := subtotal - discount + shippingCost
	if total < 0 {
		total = 0
	}

	return domain.Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
	}
}

func validateBuyer(b domain.Buyer, method domain.ShippingMethod) error {
	if strings.TrimSpace(b.Name) == "" {
		return domain.NewValidationError("name", "name is required")
	}
	email := strings.TrimSpace(b.Email)
	if email == "" {
		return domain.NewValidationError("email", "email is required")
	}
	if !IsValidEmail(email) {
		return domain.NewValidationError("email", "email is not valid")
	}
	if strings.TrimSpace(b.Phone) == "" {
		return domain.NewValidationError("phone", "phone is required")
	}

	if method.RequiresAddress() {
		if strings.TrimSpace(b.Address) == "" {
			return domain.NewValidationError("address", "address is required for courier shipping")
		}
		if strings.TrimSpace(b.City) == "" {
			return domain.NewValidationError("city", "city is required for courier shipping")
		}
		if strings.TrimSpace(b.PostalCode) == "" {
			return domain.NewValidationError("postalCode", "postal code is required for courier shipping")
		}
	}

	return nil
}

func validateShipping(s domain.Shipping) error {
	if !s.Method.Valid() {
		return domain.NewValidationError("shipping.method", "unknown shipping method")
	}
	if s.Cost < 0 {
		return domain.NewValidationError("shipping.cost", "shipping cost must be non-negative")
	}
	return nil
}

func validateItems(items []domain.DraftItem) error {
	if len(items) == 0 {
		return domain.NewValidationError("items", "cart is empty")
	}
	for _, item := range items {
		if item.Qty < 1 {
			return domain.NewValidationError("items", "item qty must be at least 1")
		}
		if item.Price < 0 {
			return domain.NewValidationError("items", "item price must be non-negative")
		}
	}
	return nil
}

func trimBuyer(b domain.Buyer) domain.Buyer {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = strings.TrimSpace(b.Email)
	b.Phone = strings.TrimSpace(b.Phone)
	b.Address = strings.TrimSpace(b.Address)
	b.City = strings.TrimSpace(b.City)
	b.PostalCode = strings.TrimSpace(b.PostalCode)
	b.Notes = strings.TrimSpace(b.Notes)
	return b
}
