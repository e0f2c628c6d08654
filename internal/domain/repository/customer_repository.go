package repository

import (
	"context"

	"github.com/margiesol/mew-bad/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// Delete falla con domain.ErrConflict si hay facturas que lo referencian.
	Delete(ctx context.Context, id string) error
	LastCode(ctx context.Context) (string, error)
}
