package repository

import (
	"context"

	"github.com/margiesol/mew-bad/internal/domain/entity"
)

// BankRepository define el puerto de persistencia para Bank.
type BankRepository interface {
	Create(ctx context.Context, bank *entity.Bank) error
	GetByID(ctx context.Context, id string) (*entity.Bank, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Bank, error)
	Update(ctx context.Context, bank *entity.Bank) error
	Delete(ctx context.Context, id string) error
	LastCode(ctx context.Context) (string, error)
}
