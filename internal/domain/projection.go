package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates the read-side figures shown on the back-office
// dashboard.
type DashboardSummary struct {
	MotosPorStatus     map[string]int  `json:"motos_por_status"`
	ContratosPorStatus map[string]int  `json:"contratos_por_status"`
	ParcelasAtrasadas  int             `json:"parcelas_atrasadas"`
	TotalEmAtraso      decimal.Decimal `json:"total_em_atraso"`
	VendasNoMes        int             `json:"vendas_no_mes"`
	GeradoEm           time.Time       `json:"gerado_em"`
}

// ContagemMotosPorStatus counts vehicles per inventory status.
func ContagemMotosPorStatus(motos []*Moto) map[string]int {
	contagem := make(map[string]int)
	for _, m := range motos {
		contagem[m.Status]++
	}
	return contagem
}

// ContagemContratosPorStatus counts contracts per derived status.
func ContagemContratosPorStatus(contratos []*Financiamento) map[string]int {
	contagem := make(map[string]int)
	for _, f := range contratos {
		contagem[f.Status]++
	}
	return contagem
}

// TotalEmAtraso returns the count of overdue installments and the sum of
// their totals with accrued interest and penalty. Corrupt installments never
// reach atrasada status, so they are excluded by construction.
func TotalEmAtraso(contratos []*Financiamento) (int, decimal.Decimal) {
	count := 0
	total := decimal.Zero
	for _, f := range contratos {
		for _, p := range f.Parcelas {
			if p.Status == ParcelaStatusAtrasada {
				count++
				total = total.Add(p.ValorTotal)
			}
		}
	}
	return count, total
}

// VendasPorPeriodo returns the contracts signed within [de, ate], inclusive
// on both ends. Callers normalize the bounds to day granularity.
func VendasPorPeriodo(contratos []*Financiamento, de, ate time.Time) []*Financiamento {
	var vendas []*Financiamento
	for _, f := range contratos {
		if f.DataContrato.Before(de) || f.DataContrato.After(ate) {
			continue
		}
		vendas = append(vendas, f)
	}
	return vendas
}
