package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/motocred/financing-engine/pkg/dateutil"
	customError "github.com/motocred/financing-engine/pkg/errors"
	"github.com/motocred/financing-engine/pkg/money"
)

// GerarParcelas builds the installment schedule for a contract. Installment i
// falls due i calendar months after the contract date, with the day of month
// clamped when the target month is shorter. valorParcela is the caller-chosen
// per-installment value; it may carry a financing markup or a manual override.
func GerarParcelas(financiamentoID uuid.UUID, dataContrato time.Time, principal decimal.Decimal, quantidade int, valorParcela decimal.Decimal) ([]*Parcela, error) {
	if quantidade < 1 {
		return nil, customError.WrapInvalidSchedule(fmt.Sprintf("installment count must be at least 1, got %d", quantidade))
	}
	if quantidade > MaxParcelas {
		return nil, customError.WrapInvalidSchedule(fmt.Sprintf("installment count must be at most %d, got %d", MaxParcelas, quantidade))
	}
	if principal.IsNegative() {
		return nil, customError.WrapInvalidSchedule(fmt.Sprintf("principal must not be negative, got %s", principal))
	}
	if valorParcela.IsNegative() {
		return nil, customError.WrapInvalidSchedule(fmt.Sprintf("installment value must not be negative, got %s", valorParcela))
	}

	parcelas := make([]*Parcela, 0, quantidade)
	for numero := 1; numero <= quantidade; numero++ {
		parcelas = append(parcelas, &Parcela{
			ID:              uuid.New(),
			FinanciamentoID: financiamentoID,
			Numero:          numero,
			DataVencimento:  dateutil.AddMonths(dataContrato, numero),
			ValorOriginal:   valorParcela,
			ValorJuros:      decimal.Zero,
			ValorMulta:      decimal.Zero,
			ValorTotal:      valorParcela,
			Status:          ParcelaStatusPendente,
		})
	}

	return parcelas, nil
}

// ValorParcelaComTaxa computes the per-installment value with the financing
// markup applied: (principal / count) * (1 + rate/100), rounded to cents.
func ValorParcelaComTaxa(principal decimal.Decimal, quantidade int, taxaFinanciamento decimal.Decimal) decimal.Decimal {
	base := principal.Div(decimal.NewFromInt(int64(quantidade)))
	fator := decimal.NewFromInt(1).Add(money.Percent(taxaFinanciamento))
	return money.RoundCents(base.Mul(fator))
}
