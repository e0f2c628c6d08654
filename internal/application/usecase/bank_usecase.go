package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/validation"
	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/masterdata"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

// BankUseCase casos de uso CRUD para bancos.
type BankUseCase struct {
	repo repository.BankRepository
}

// NewBankUseCase construye el caso de uso.
func NewBankUseCase(repo repository.BankRepository) *BankUseCase {
	return &BankUseCase{repo: repo}
}

// Create crea un banco con el siguiente código visible.
func (uc *BankUseCase) Create(ctx context.Context, in dto.BankRequest) (*dto.BankResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	bank := &entity.Bank{
		ID:        uuid.New().String(),
		Acronym:   strings.ToUpper(strings.TrimSpace(in.Acronym)),
		Name:      strings.TrimSpace(in.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := createWithCode(ctx, uc.repo.LastCode, masterdata.BankCodeWidth,
		func(code string) { bank.Code = code },
		func(ctx context.Context) error { return uc.repo.Create(ctx, bank) },
	)
	if err != nil {
		return nil, err
	}
	return toBankResponse(bank), nil
}

// NextCode devuelve el código que recibiría el próximo banco.
func (uc *BankUseCase) NextCode(ctx context.Context) (string, error) {
	return nextCode(ctx, uc.repo.LastCode, masterdata.BankCodeWidth)
}

// GetByID obtiene un banco por ID.
func (uc *BankUseCase) GetByID(ctx context.Context, id string) (*dto.BankResponse, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return toBankResponse(b), nil
}

// Update modifica sigla y nombre.
func (uc *BankUseCase) Update(ctx context.Context, id string, in dto.BankRequest) (*dto.BankResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	b.Acronym = strings.ToUpper(strings.TrimSpace(in.Acronym))
	b.Name = strings.TrimSpace(in.Name)
	b.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return toBankResponse(b), nil
}

// Delete elimina un banco sin cheques asociados.
func (uc *BankUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List lista bancos ordenados por código.
func (uc *BankUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.BankResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BankResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBankResponse(b))
	}
	return out, nil
}

func toBankResponse(b *entity.Bank) *dto.BankResponse {
	return &dto.BankResponse{ID: b.ID, Code: b.Code, Acronym: b.Acronym, Name: b.Name}
}
