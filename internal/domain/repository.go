package domain

import "context"

// OrderRepository описывает требования к хранилищу заказов.
//
// Insert обязан вести себя как create-if-absent по ключу paymentRef.paymentId:
// повторная вставка для уже сохранённого платежа возвращает ErrOrderAlreadyExists,
// даже при конкурентных вызовах. Обычный «сначала прочитать, потом вставить»
// без такой гарантии — известная гонка.
type OrderRepository interface {
	// Insert сохраняет новый заказ и возвращает его с заполненным ID.
	Insert(ctx context.Context, order Order) (Order, error)
	// FindByPaymentID ищет заказ по идентификатору платежа.
	// Возвращает ErrOrderNotFound, если заказа нет.
	FindByPaymentID(ctx context.Context, paymentID string) (Order, error)
	// FindByNumber возвращает заказ по человекочитаемому номеру.
	FindByNumber(ctx context.Context, number int) (Order, error)
}

// OrderNumberRepository резервирует человекочитаемые номера заказов.
// Reserve — строго create-if-absent: занятый номер возвращает ErrOrderNumberTaken.
type OrderNumberRepository interface {
	Reserve(ctx context.Context, number int) error
}
