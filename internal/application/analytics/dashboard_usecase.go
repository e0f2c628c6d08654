// Package analytics contiene el resumen de ventas del tablero principal.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/validation"
	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/repository"
	"github.com/margiesol/mew-bad/pkg/logger"
)

// SummaryCache caché del resumen por período. Key fija la versión de la caché
// al inicio de la lectura; Get devuelve (nil, nil) si no hay entrada.
type SummaryCache interface {
	Key(ctx context.Context, period string) (string, error)
	GetSummary(ctx context.Context, key string) (*dto.DashboardSummaryDTO, error)
	SetSummary(ctx context.Context, key string, summary *dto.DashboardSummaryDTO) error
}

// DashboardUseCase genera el resumen de ventas.
//
// Cuatro consultas read-only en paralelo: totales, conteo por estado de pago,
// conteo por estado de entrega y facturas vencidas.
type DashboardUseCase struct {
	repo  repository.DashboardRepository
	cache SummaryCache
	log   *logger.Logger
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(repo repository.DashboardRepository, cache SummaryCache, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{repo: repo, cache: cache, log: log.WithComponent("dashboard"), now: time.Now}
}

// GetSummary devuelve el resumen del período [from, to]; fechas vacías no acotan.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, in dto.DashboardSummaryRequest) (*dto.DashboardSummaryDTO, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	from, err := optionalDate(in.From)
	if err != nil {
		return nil, err
	}
	to, err := optionalDate(in.To)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrInvalidInput)
	}

	key, cached := uc.cached(ctx, in.From+".."+in.To)
	if cached != nil {
		return cached, nil
	}

	var (
		totals     repository.SalesTotals
		byPayment  map[string]int
		byDelivery map[string]int
		overdue    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = uc.repo.SalesTotals(gctx, from, to)
		if err != nil {
			return fmt.Errorf("dashboard: totales: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		byPayment, err = uc.repo.CountByPaymentStatus(gctx, from, to)
		if err != nil {
			return fmt.Errorf("dashboard: por estado de pago: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		byDelivery, err = uc.repo.CountByDeliveryStatus(gctx, from, to)
		if err != nil {
			return fmt.Errorf("dashboard: por estado de entrega: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		overdue, err = uc.repo.CountOverdue(gctx, uc.now())
		if err != nil {
			return fmt.Errorf("dashboard: vencidas: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardSummaryDTO{
		From:             in.From,
		To:               in.To,
		InvoiceCount:     totals.InvoiceCount,
		TotalSales:       totals.TotalSales.StringFixed(2),
		TotalReceived:    totals.TotalReceived.StringFixed(2),
		TotalOutstanding: totals.TotalOutstanding.StringFixed(2),
		ByPaymentStatus:  byPayment,
		ByDeliveryStatus: byDelivery,
		OverdueCount:     overdue,
	}
	if key != "" {
		if err := uc.cache.SetSummary(ctx, key, out); err != nil {
			uc.log.Warn().Err(err).Msg("escritura de caché fallida")
		}
	}
	return out, nil
}

// cached toma la clave versionada y busca el resumen. key vacía: no guardar.
func (uc *DashboardUseCase) cached(ctx context.Context, period string) (string, *dto.DashboardSummaryDTO) {
	if uc.cache == nil {
		return "", nil
	}
	key, err := uc.cache.Key(ctx, period)
	if err != nil {
		uc.log.Warn().Err(err).Msg("versión de caché no disponible")
		return "", nil
	}
	summary, err := uc.cache.GetSummary(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Msg("lectura de caché fallida")
		return key, nil
	}
	return key, summary
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q inválida", domain.ErrInvalidInput, s)
	}
	return &t, nil
}
