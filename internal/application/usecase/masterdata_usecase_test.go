package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/usecase"
	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/infrastructure/memory"
)

func TestProduct_CodigosConsecutivosYDefaults(t *testing.T) {
	store := memory.New()
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()

	first, err := uc.Create(ctx, dto.ProductRequest{ProductCode: "ARZ-25", Description: "Arroz", Price: decimal.RequireFromString("12.345")})
	require.NoError(t, err)
	second, err := uc.Create(ctx, dto.ProductRequest{ProductCode: "AZC-1", Description: "Azúcar", Unit: "KG", Status: entity.ProductInactive})
	require.NoError(t, err)

	assert.Equal(t, "00001", first.Code)
	assert.Equal(t, "00002", second.Code)
	assert.Equal(t, "PCS", first.Unit)
	assert.Equal(t, "Active", first.Status)
	assert.Equal(t, "12.35", first.Price)

	next, err := uc.NextCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "00003", next)

	active, err := uc.List(ctx, entity.ProductActive, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestProduct_CodigoComercialDuplicado(t *testing.T) {
	store := memory.New()
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.ProductRequest{ProductCode: "ARZ-25", Description: "Arroz"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.ProductRequest{ProductCode: "ARZ-25", Description: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_PrecioNegativo(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.New().Products())
	_, err := uc.Create(context.Background(), dto.ProductRequest{ProductCode: "X", Description: "X", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAgentYBank_CRUD(t *testing.T) {
	store := memory.New()
	agents := usecase.NewAgentUseCase(store.Agents())
	banks := usecase.NewBankUseCase(store.Banks())
	ctx := context.Background()

	a, err := agents.Create(ctx, dto.AgentRequest{Name: "Juan Cruz", PhoneNo: "0917"})
	require.NoError(t, err)
	assert.Equal(t, "0001", a.Code)
	a, err = agents.Update(ctx, a.ID, dto.AgentRequest{Name: "Juan D. Cruz"})
	require.NoError(t, err)
	assert.Equal(t, "Juan D. Cruz", a.Name)
	require.NoError(t, agents.Delete(ctx, a.ID))
	_, err = agents.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	b, err := banks.Create(ctx, dto.BankRequest{Acronym: "BPI", Name: "Bank of the Philippine Islands"})
	require.NoError(t, err)
	assert.Equal(t, "0001", b.Code)
	list, err := banks.List(ctx, dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProfile_ProximosCodigos(t *testing.T) {
	store := memory.New()
	products := usecase.NewProductUseCase(store.Products())
	customers := billing.NewCustomerUseCase(store.Customers())
	agents := usecase.NewAgentUseCase(store.Agents())
	banks := usecase.NewBankUseCase(store.Banks())
	ctx := context.Background()

	_, err := customers.Create(ctx, dto.CustomerRequest{Name: "Tienda Sol"})
	require.NoError(t, err)

	codes, err := usecase.NewProfileUseCase(products, customers, agents, banks).NextCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, &dto.NextCodesResponse{Product: "00001", Customer: "0002", Agent: "0001", Bank: "0001"}, codes)
}

func TestCustomer_BorrarReferenciadoPorFactura(t *testing.T) {
	store := memory.New()
	customers := billing.NewCustomerUseCase(store.Customers())
	ctx := context.Background()

	c, err := customers.Create(ctx, dto.CustomerRequest{Name: "Tienda Sol"})
	require.NoError(t, err)
	assert.Equal(t, "No Selection", c.Area)

	svc := billing.NewRecomputeService(store, nil, nil)
	invoices := billing.NewInvoiceUseCase(store, store.Billing(), store.Customers(), store.Agents(), svc)
	_, err = invoices.Create(ctx, "", dto.CreateInvoiceRequest{Number: "SI-1", Date: "2026-05-01", CustomerID: c.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, customers.Delete(ctx, c.ID), domain.ErrConflict)

	found, err := customers.List(ctx, "sol", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestUser_ListaSinHash(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u-1", Username: "maria", PasswordHash: "x", Role: entity.RoleAdmin}))

	uc := usecase.NewUserUseCase(store.Users())
	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "maria", list[0].Username)

	_, err = uc.GetByID(ctx, "u-2")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
