// Package catalog is the read-only product layer. Raw store documents come
// in several historical shapes; normalize maps every one of them into the
// canonical Product at this boundary, so nothing downstream branches on which
// shape produced a record.
package catalog

import (
	"context"
	"errors"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Repository interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}
