package domain

// ShippingMethod — способ доставки заказа.
type ShippingMethod string

const (
	// ShippingPickup — самовывоз, бесплатный и без адреса.
	ShippingPickup ShippingMethod = "pickup"
	// ShippingCourier — курьерская доставка, требует полный адрес.
	ShippingCourier ShippingMethod = "courier"
)

// Valid сообщает, известен ли способ доставки.
func (m ShippingMethod) Valid() bool {
	return m == ShippingPickup || m == ShippingCourier
}

// RequiresAddress сообщает, нужны ли адресные поля покупателя.
func (m ShippingMethod) RequiresAddress() bool {
	return m == ShippingCourier
}

// DraftItem — позиция корзины. Цена в минорных единицах валюты магазина.
type DraftItem struct {
	ID       string `json:"id" bson:"id"`
	Title    string `json:"title" bson:"title"`
	Price    int64  `json:"price" bson:"price"`
	Qty      int    `json:"qty" bson:"qty"`
	Size     string `json:"size,omitempty" bson:"size,omitempty"`
	Color    string `json:"color,omitempty" bson:"color,omitempty"`
	ImageURL string `json:"image,omitempty" bson:"image,omitempty"`
}

// Buyer — данные покупателя из формы оформления.
type Buyer struct {
	Name       string `json:"name" bson:"name"`
	Email      string `json:"email" bson:"email"`
	Phone      string `json:"phone" bson:"phone"`
	Address    string `json:"address,omitempty" bson:"address,omitempty"`
	City       string `json:"city,omitempty" bson:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	Notes      string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Shipping — выбранная доставка и её стоимость.
type Shipping struct {
	Method     ShippingMethod `json:"method" bson:"method"`
	Cost       int64          `json:"cost" bson:"cost"`
	PostalCode string         `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
}

// Totals — суммы чека в минорных единицах.
type Totals struct {
	Subtotal int64 `json:"subtotal" bson:"subtotal"`
	Discount int64 `json:"discount" bson:"discount"`
	Total    int64 `json:"total" bson:"total"`
}

// Coupon — применённый купон. Amount — абсолютная скидка, не процент.
type Coupon struct {
	Code   string `json:"code" bson:"code"`
	Amount int64  `json:"amount" bson:"amount"`
}

// OrderDraft — неизменяемый снимок корзины и данных формы на момент создания
// платёжного намерения. Черновик путешествует через metadata процессинга и
// возвращается при реконсиляции; между этими точками он не редактируется.
type OrderDraft struct {
	Items    []DraftItem `json:"items" bson:"items"`
	Buyer    Buyer       `json:"buyer" bson:"buyer"`
	Shipping Shipping    `json:"shipping" bson:"shipping"`
	Totals   Totals      `json:"totals" bson:"totals"`
	Coupon   *Coupon     `json:"coupon,omitempty" bson:"coupon,omitempty"`
}

// Subtotal пересчитывает сумму позиций.
func (d *OrderDraft) Subtotal() int64 {
	var sum int64
	for _, item := range d.Items {
		sum += item.Price * int64(item.Qty)
	}
	return sum
}

// ExpectedTotal пересчитывает итог из компонентов. Отрицательный итог
// клампится в ноль: скидка может превышать сумму покупки.
func (d *OrderDraft) ExpectedTotal() int64 {
	total := d.Subtotal() - d.Totals.Discount + d.Shipping.Cost
	if total < 0 {
		total = 0
	}
	return total
}

// ValidateTotals сверяет заявленные суммы черновика с пересчитанными и
// проверяет базовую корректность позиций. Возвращает все нарушения разом.
func (d *OrderDraft) ValidateTotals() []error {
	var errs []error

	if len(d.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	for _, item := range d.Items {
		if item.Qty < 1 {
			errs = append(errs, ErrItemQtyInvalid)
			break
		}
	}
	for _, item := range d.Items {
		if item.Price < 0 {
			errs = append(errs, ErrItemPriceInvalid)
			break
		}
	}
	if d.Totals.Discount < 0 {
		errs = append(errs, ErrDiscountNegative)
	}
	if d.Shipping.Cost < 0 {
		errs = append(errs, ErrShippingCostNegative)
	}
	if len(errs) > 0 {
		return errs
	}

	if d.Totals.Subtotal != d.Subtotal() {
		errs = append(errs, ErrSubtotalMismatch)
	}
	if d.Totals.Total != d.ExpectedTotal() {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
