package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ContratoStatusAtivo        = "ativo"
	ContratoStatusQuitado      = "quitado"
	ContratoStatusInadimplente = "inadimplente"
)

// MaxParcelas is the contractual ceiling on installment count.
const MaxParcelas = 60

// Financiamento represents a vehicle financing contract. Installments are
// embedded and exclusively owned by the contract.
type Financiamento struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	Numero             int             `json:"numero" db:"numero"`
	ClienteID          uuid.UUID       `json:"cliente_id" db:"cliente_id"`
	MotoID             uuid.UUID       `json:"moto_id" db:"moto_id"`
	ValorTotal         decimal.Decimal `json:"valor_total" db:"valor_total"`
	ValorEntrada       decimal.Decimal `json:"valor_entrada" db:"valor_entrada"`
	ValorFinanciado    decimal.Decimal `json:"valor_financiado" db:"valor_financiado"`
	QuantidadeParcelas int             `json:"quantidade_parcelas" db:"quantidade_parcelas"`
	TaxaJurosAtraso    decimal.Decimal `json:"taxa_juros_atraso" db:"taxa_juros_atraso"`
	ValorMultaAtraso   decimal.Decimal `json:"valor_multa_atraso" db:"valor_multa_atraso"`
	TaxaFinanciamento  decimal.Decimal `json:"taxa_financiamento" db:"taxa_financiamento"`
	DataContrato       time.Time       `json:"data_contrato" db:"data_contrato"`
	Status             string          `json:"status" db:"status"`
	Inconsistente      bool            `json:"inconsistente" db:"inconsistente"`
	Parcelas           []*Parcela      `json:"parcelas" db:"-"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// Parcela returns the installment with the given 1-based number, or nil.
func (f *Financiamento) Parcela(numero int) *Parcela {
	for _, p := range f.Parcelas {
		if p.Numero == numero {
			return p
		}
	}
	return nil
}

// DeriveStatus recomputes the contract status from its installments:
// quitado when every installment is paid, inadimplente when any is overdue,
// ativo otherwise. Returns true when the status changed.
func (f *Financiamento) DeriveStatus() bool {
	allPaid := len(f.Parcelas) > 0
	anyOverdue := false
	for _, p := range f.Parcelas {
		if p.Status != ParcelaStatusPaga {
			allPaid = false
		}
		if p.Status == ParcelaStatusAtrasada {
			anyOverdue = true
		}
	}

	status := ContratoStatusAtivo
	switch {
	case allPaid:
		status = ContratoStatusQuitado
	case anyOverdue:
		status = ContratoStatusInadimplente
	}

	if f.Status == status {
		return false
	}
	f.Status = status
	return true
}

// RecomputeTotals re-derives valor_financiado and valor_total from the
// installments' original values plus the down payment. These fields are
// never user-entered; any installment edit flows through here.
func (f *Financiamento) RecomputeTotals() {
	sum := decimal.Zero
	for _, p := range f.Parcelas {
		sum = sum.Add(p.ValorOriginal)
	}
	f.ValorFinanciado = sum
	f.ValorTotal = f.ValorEntrada.Add(sum)
}

// DTOs for requests and responses

type CreateContractRequest struct {
	ClienteID          uuid.UUID       `json:"cliente_id" validate:"required"`
	MotoID             uuid.UUID       `json:"moto_id" validate:"required"`
	ValorEntrada       decimal.Decimal `json:"valor_entrada"`
	QuantidadeParcelas int             `json:"quantidade_parcelas" validate:"required,gte=1,lte=60"`
	TaxaJurosAtraso    decimal.Decimal `json:"taxa_juros_atraso"`
	ValorMultaAtraso   decimal.Decimal `json:"valor_multa_atraso"`
	TaxaFinanciamento  decimal.Decimal `json:"taxa_financiamento"`
	// ValorParcela overrides the computed per-installment value when set.
	ValorParcela *decimal.Decimal `json:"valor_parcela,omitempty"`
	DataContrato time.Time        `json:"data_contrato"`
}

type RegisterPaymentRequest struct {
	NumeroParcela int             `json:"numero_parcela" validate:"required,gte=1"`
	DataPagamento time.Time       `json:"data_pagamento"`
	ValorPago     decimal.Decimal `json:"valor_pago"`
}

type EditInstallmentRequest struct {
	NumeroParcela int             `json:"numero_parcela" validate:"required,gte=1"`
	ValorOriginal decimal.Decimal `json:"valor_original"`
}

type ContractResponse struct {
	Financiamento *Financiamento `json:"financiamento"`
	Moto          *Moto          `json:"moto,omitempty"`
}
