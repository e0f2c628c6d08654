package usecase

import (
	"context"
	"fmt"
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

// ProductUseCase casos de uso CRUD para productos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. product_code duplicado devuelve domain.ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		ProductCode: strings.TrimSpace(in.ProductCode),
		Description: strings.TrimSpace(in.Description),
		Unit:        nonEmpty(in.Unit, entity.DefaultUnit),
		Price:       in.Price.Round(2),
		Quantity:    in.Quantity,
		Status:      nonEmpty(in.Status, entity.ProductActive),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := createWithCode(ctx, uc.repo.LastCode, masterdata.ProductCodeWidth,
		func(code string) { product.Code = code },
		func(ctx context.Context) error { return uc.repo.Create(ctx, product) },
	)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// NextCode devuelve el código que recibiría el próximo producto.
func (uc *ProductUseCase) NextCode(ctx context.Context) (string, error) {
	return nextCode(ctx, uc.repo.LastCode, masterdata.ProductCodeWidth)
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Los renglones ya facturados conservan su precio.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	product.ProductCode = strings.TrimSpace(in.ProductCode)
	product.Description = strings.TrimSpace(in.Description)
	product.Unit = nonEmpty(in.Unit, entity.DefaultUnit)
	product.Price = in.Price.Round(2)
	product.Quantity = in.Quantity
	product.Status = nonEmpty(in.Status, product.Status)
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto que no aparece en ninguna factura.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List lista productos ordenados por código; status vacío no filtra.
func (uc *ProductUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	if status != "" && status != entity.ProductActive && status != entity.ProductInactive {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

func validateProduct(in dto.ProductRequest) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		ProductCode: p.ProductCode,
		Description: p.Description,
		Unit:        p.Unit,
		Price:       p.Price.StringFixed(2),
		Quantity:    p.Quantity,
		Status:      p.Status,
	}
}

func nonEmpty(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
