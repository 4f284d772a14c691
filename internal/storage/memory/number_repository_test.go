package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
	"github.com/Nikias-Tacain/dealdress-page/internal/storage/memory"
)

func TestNumberRepository_Reserve(t *testing.T) {
	repo := memory.NewOrderNumberRepository()
	ctx := context.Background()

	if err := repo.Reserve(ctx, 123456); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	if err := repo.Reserve(ctx, 123456); !errors.Is(err, domain.ErrOrderNumberTaken) {
		t.Fatalf("expected ErrOrderNumberTaken, got %v", err)
	}

	if err := repo.Reserve(ctx, 123457); err != nil {
		t.Fatalf("different number must reserve: %v", err)
	}
}

func TestNumberRepository_RejectsOutOfRange(t *testing.T) {
	repo := memory.NewOrderNumberRepository()
	ctx := context.Background()

	for _, number := range []int{0, 99999, 1000000} {
		if err := repo.Reserve(ctx, number); !errors.Is(err, domain.ErrOrderNumberInvalid) {
			t.Fatalf("expected ErrOrderNumberInvalid for %d, got %v", number, err)
		}
	}
}
