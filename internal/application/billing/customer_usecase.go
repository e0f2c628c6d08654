package billing

import (
	"context"
	"errors"
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

// codeAttempts intentos de asignar un código visible ante colisiones concurrentes.
const codeAttempts = 3

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un cliente con el siguiente código visible.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		ContactPerson: in.ContactPerson,
		PhoneNo:       in.PhoneNo,
		Address:       in.Address,
		Area:          areaOrDefault(in.Area),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var err error
	for i := 0; i < codeAttempts; i++ {
		if customer.Code, err = uc.NextCode(ctx); err != nil {
			return nil, err
		}
		if err = uc.repo.Create(ctx, customer); !errors.Is(err, domain.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// NextCode devuelve el código que recibiría el próximo cliente.
func (uc *CustomerUseCase) NextCode(ctx context.Context) (string, error) {
	last, err := uc.repo.LastCode(ctx)
	if err != nil {
		return "", err
	}
	return masterdata.NextCode(last, masterdata.CustomerCodeWidth)
}

// GetByID obtiene un cliente por ID.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

// Update modifica los datos de un cliente. El código no cambia.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	c.Name = strings.TrimSpace(in.Name)
	c.ContactPerson = in.ContactPerson
	c.PhoneNo = in.PhoneNo
	c.Address = in.Address
	c.Area = areaOrDefault(in.Area)
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina un cliente sin facturas.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List lista clientes ordenados por código; search filtra por nombre.
func (uc *CustomerUseCase) List(ctx context.Context, search string, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func areaOrDefault(area string) string {
	area = strings.TrimSpace(area)
	if area == "" {
		return masterdata.DefaultArea
	}
	return area
}
