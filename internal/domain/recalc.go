package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/motocred/financing-engine/pkg/dateutil"
	customError "github.com/motocred/financing-engine/pkg/errors"
	"github.com/motocred/financing-engine/pkg/money"
)

// ScheduleIssue reports a data-integrity problem found during a
// recalculation sweep. The affected installment keeps its stored figures and
// is excluded from penalty accrual; the contract is flagged.
type ScheduleIssue struct {
	FinanciamentoID uuid.UUID `json:"financiamento_id"`
	NumeroParcela   int       `json:"numero_parcela"`
	Reason          string    `json:"reason"`
}

// Err renders the issue as a CorruptScheduleError so callers can match it
// with errors.Is against ErrCorruptSchedule.
func (i *ScheduleIssue) Err() error {
	return customError.WrapCorruptSchedule(i.FinanciamentoID.String(), i.NumeroParcela, i.Reason)
}

// RecalcResult summarizes one sweep: which contracts changed and what went
// wrong, so the caller can notify the user and log a batch report.
type RecalcResult struct {
	ContratosAlterados []uuid.UUID      `json:"contratos_alterados"`
	NovasAtrasadas     int              `json:"novas_atrasadas"`
	Issues             []*ScheduleIssue `json:"issues,omitempty"`
}

// Recalcular re-derives late interest, penalties and statuses for every
// contract as of hoje. Paid installments are terminal and never touched.
// Each unpaid installment's figures are a function of hoje and fixed
// contract parameters only, never of its previous derived state, so the
// sweep is idempotent and safe to re-run at any time.
func Recalcular(contratos []*Financiamento, hoje time.Time) *RecalcResult {
	result := &RecalcResult{}
	hoje = dateutil.StartOfDay(hoje)

	for _, f := range contratos {
		changed := false
		corrupt := false

		for _, p := range f.Parcelas {
			if p.Status == ParcelaStatusPaga {
				continue
			}

			if reason := validarParcela(p); reason != "" {
				result.Issues = append(result.Issues, &ScheduleIssue{
					FinanciamentoID: f.ID,
					NumeroParcela:   p.Numero,
					Reason:          reason,
				})
				corrupt = true
				continue
			}

			wasOverdue := p.Status == ParcelaStatusAtrasada
			if recalcParcela(p, f.TaxaJurosAtraso, f.ValorMultaAtraso, hoje) {
				changed = true
			}
			if !wasOverdue && p.Status == ParcelaStatusAtrasada {
				result.NovasAtrasadas++
			}
		}

		if f.Inconsistente != corrupt {
			f.Inconsistente = corrupt
			changed = true
		}
		if f.DeriveStatus() {
			changed = true
		}
		if changed {
			result.ContratosAlterados = append(result.ContratosAlterados, f.ID)
		}
	}

	return result
}

// recalcParcela rewrites one unpaid installment's derived fields as of hoje.
// Same-day due is not overdue; interest is simple daily-linear on the
// original value, the penalty is a flat fee. Returns true when any field
// changed.
func recalcParcela(p *Parcela, taxaJurosAtraso, valorMultaAtraso decimal.Decimal, hoje time.Time) bool {
	venc := dateutil.StartOfDay(p.DataVencimento)
	dias := dateutil.DaysBetween(venc, hoje)

	juros := decimal.Zero
	multa := decimal.Zero
	status := ParcelaStatusPendente

	if dias > 0 {
		diario := p.ValorOriginal.Mul(money.Percent(taxaJurosAtraso))
		juros = money.RoundCents(diario.Mul(decimal.NewFromInt(int64(dias))))
		multa = valorMultaAtraso
		status = ParcelaStatusAtrasada
	}

	total := p.ValorOriginal.Add(juros).Add(multa)
	changed := p.Status != status ||
		!p.ValorJuros.Equal(juros) ||
		!p.ValorMulta.Equal(multa) ||
		!p.ValorTotal.Equal(total)

	p.ValorJuros = juros
	p.ValorMulta = multa
	p.ValorTotal = total
	p.Status = status
	return changed
}

func validarParcela(p *Parcela) string {
	if p.DataVencimento.IsZero() {
		return "missing due date"
	}
	if p.ValorOriginal.IsNegative() {
		return "negative original value"
	}
	return ""
}
