package domain

import "time"

// OrderStatus описывает статус сохранённого заказа.
// Этот поток сохраняет только подтверждённые заказы: неподтверждённый платёж
// не оставляет следа в хранилище.
type OrderStatus string

const (
	// OrderStatusApproved — платёж подтверждён процессингом, заказ финализирован.
	OrderStatusApproved OrderStatus = "approved"
)

// PaymentRef связывает заказ с платежом у внешнего процессинга.
// PaymentID — ключ идемпотентности: на один платёж существует не более одного заказа.
type PaymentRef struct {
	PaymentID       string `json:"paymentId" bson:"paymentId"`
	IntentID        string `json:"preferenceId" bson:"preferenceId"`
	PaymentMethod   string `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	PaymentType     string `json:"paymentType,omitempty" bson:"paymentType,omitempty"`
	ProcessorStatus string `json:"status,omitempty" bson:"status,omitempty"`
	StatusDetail    string `json:"statusDetail,omitempty" bson:"statusDetail,omitempty"`
	Amount          int64  `json:"amount,omitempty" bson:"amount,omitempty"`
}

// Order — окончательный заказ, единственная авторитетная запись о покупке.
// Поля Items/Buyer/Shipping/Totals/Coupon копируются из черновика дословно;
// реконсиляция никогда не доверяет новым данным клиента.
type Order struct {
	ID         string      `json:"id" bson:"_id,omitempty"`
	Number     int         `json:"number" bson:"number"`
	Items      []DraftItem `json:"items" bson:"items"`
	Buyer      Buyer       `json:"buyer" bson:"buyer"`
	Shipping   Shipping    `json:"shipping" bson:"shipping"`
	Totals     Totals      `json:"totals" bson:"totals"`
	Coupon     *Coupon     `json:"coupon,omitempty" bson:"coupon,omitempty"`
	Status     OrderStatus `json:"status" bson:"status"`
	PaymentRef PaymentRef  `json:"mp" bson:"mp"`
	CreatedAt  time.Time   `json:"createdAt" bson:"createdAt"`
}

// ValidateInvariants проверяет базовые инварианты заказа перед сохранением.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.Number < orderNumberMin || o.Number > orderNumberMax {
		errs = append(errs, ErrOrderNumberInvalid)
	}
	if o.Status != OrderStatusApproved {
		errs = append(errs, ErrOrderStatusInvalid)
	}
	if o.PaymentRef.PaymentID == "" {
		errs = append(errs, ErrPaymentIDRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	return errs
}

const (
	// Диапазон человекочитаемых номеров заказов: шесть цифр.
	orderNumberMin = 100000
	orderNumberMax = 999999
)

// OrderNumberRange возвращает допустимый диапазон номеров заказов.
func OrderNumberRange() (min, max int) {
	return orderNumberMin, orderNumberMax
}
