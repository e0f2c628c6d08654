package usecase

import (
	"context"

	"github.com/margiesol/mew-bad/internal/application/dto"
)

// CodePreviewer devuelve el próximo código visible de un catálogo.
type CodePreviewer interface {
	NextCode(ctx context.Context) (string, error)
}

// ProfileUseCase datos de la pantalla de catálogos.
type ProfileUseCase struct {
	products, customers, agents, banks CodePreviewer
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(products, customers, agents, banks CodePreviewer) *ProfileUseCase {
	return &ProfileUseCase{products: products, customers: customers, agents: agents, banks: banks}
}

// NextCodes devuelve los próximos códigos de los cuatro catálogos.
func (uc *ProfileUseCase) NextCodes(ctx context.Context) (*dto.NextCodesResponse, error) {
	var (
		out dto.NextCodesResponse
		err error
	)
	if out.Product, err = uc.products.NextCode(ctx); err != nil {
		return nil, err
	}
	if out.Customer, err = uc.customers.NextCode(ctx); err != nil {
		return nil, err
	}
	if out.Agent, err = uc.agents.NextCode(ctx); err != nil {
		return nil, err
	}
	if out.Bank, err = uc.banks.NextCode(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}
