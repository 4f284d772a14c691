package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
)

type numberRepository struct {
	collection *mongo.Collection
}

// NewOrderNumberRepository создаёт MongoDB-реализацию OrderNumberRepository.
// Номер резервируется документом с _id == номер: вставка дубликата невозможна
// на уровне базы, отдельный уникальный индекс не нужен.
func NewOrderNumberRepository(store *Store) domain.OrderNumberRepository {
	return &numberRepository{collection: store.Database().Collection(collectionOrderNumbers)}
}

// Reserve занимает номер строго create-if-absent.
func (r *numberRepository) Reserve(ctx context.Context, number int) error {
	min, max := domain.OrderNumberRange()
	if number < min || number > max {
		return domain.ErrOrderNumberInvalid
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(opCtx, bson.M{
		"_id":       number,
		"createdAt": time.Now().UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrOrderNumberTaken
		}
		return fmt.Errorf("%w: reserve order number: %v", domain.ErrStoreUnavailable, err)
	}

	return nil
}

var _ domain.OrderNumberRepository = (*numberRepository)(nil)
