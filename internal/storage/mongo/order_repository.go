package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

const opTimeout = 5 * time.Second

type orderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository создаёт MongoDB-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{collection: store.Database().Collection(collectionOrders)}
}

// Insert сохраняет заказ. Уникальный индекс по mp.paymentId превращает вставку
// в create-if-absent: конкурентная вторая вставка для того же платежа получает
// ErrOrderAlreadyExists вместо дубликата.
func (r *orderRepository) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if order.ID == "" {
		order.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.collection.InsertOne(opCtx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Order{}, domain.ErrOrderAlreadyExists
		}
		return domain.Order{}, fmt.Errorf("%w: insert order: %v", domain.ErrStoreUnavailable, err)
	}

	return order, nil
}

// FindByPaymentID ищет заказ по идентификатору платежа.
func (r *orderRepository) FindByPaymentID(ctx context.Context, paymentID string) (domain.Order, error) {
	if paymentID == "" {
		return domain.Order{}, domain.ErrPaymentIDRequired
	}

	return r.findOne(ctx, bson.M{"mp.paymentId": paymentID})
}

// FindByNumber возвращает заказ по человекочитаемому номеру.
func (r *orderRepository) FindByNumber(ctx context.Context, number int) (domain.Order, error) {
	return r.findOne(ctx, bson.M{"number": number})
}

func (r *orderRepository) findOne(ctx context.Context, filter bson.M) (domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var order domain.Order
	err := r.collection.FindOne(opCtx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("%w: find order: %v", domain.ErrStoreUnavailable, err)
	}

	return order, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
