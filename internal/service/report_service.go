package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/motocred/financing-engine/internal/domain"
	"github.com/motocred/financing-engine/pkg/dateutil"
	customError "github.com/motocred/financing-engine/pkg/errors"
)

const dashboardCacheKey = "dashboard:summary"

// DashboardSummary builds the read-side dashboard aggregates over the
// current snapshot. The result is cached in Redis for a short TTL and
// invalidated by every mutation, so a cache miss is the slow path, not an
// error path.
func (s *FinancingService) DashboardSummary(ctx context.Context, hoje time.Time) (*domain.DashboardSummary, error) {
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var cached domain.DashboardSummary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
			log.Printf("discarding unreadable dashboard cache entry: %v", err)
		}
	}

	contratos, err := s.ContractRepo.GetAll(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	motos, err := s.VehicleRepo.GetAll(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	inicioMes := time.Date(hoje.Year(), hoje.Month(), 1, 0, 0, 0, 0, hoje.Location())
	fimMes := dateutil.AddMonths(inicioMes, 1).Add(-time.Nanosecond)

	atrasadas, totalAtraso := domain.TotalEmAtraso(contratos)
	summary := &domain.DashboardSummary{
		MotosPorStatus:     domain.ContagemMotosPorStatus(motos),
		ContratosPorStatus: domain.ContagemContratosPorStatus(contratos),
		ParcelasAtrasadas:  atrasadas,
		TotalEmAtraso:      totalAtraso,
		VendasNoMes:        len(domain.VendasPorPeriodo(contratos, inicioMes, fimMes)),
		GeradoEm:           time.Now(),
	}

	if s.redis != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.redis.Set(ctx, dashboardCacheKey, raw, s.config.GetDashboardCacheTTL()).Err(); err != nil {
				log.Printf("failed to cache dashboard summary: %v", err)
			}
		}
	}

	return summary, nil
}

// MonthlySales returns the contracts signed in the given month.
func (s *FinancingService) MonthlySales(ctx context.Context, ano int, mes time.Month) ([]*domain.Financiamento, error) {
	contratos, err := s.ContractRepo.GetAll(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	inicio := time.Date(ano, mes, 1, 0, 0, 0, 0, time.UTC)
	fim := dateutil.AddMonths(inicio, 1).Add(-time.Nanosecond)
	return domain.VendasPorPeriodo(contratos, inicio, fim), nil
}
