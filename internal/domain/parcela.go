package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Business logic constants
const (
	ParcelaStatusPendente = "pendente"
	ParcelaStatusPaga     = "paga"
	ParcelaStatusAtrasada = "atrasada"
)

// Parcela is one scheduled payment within a financing contract. Once paid it
// is terminal: status, payment date and settled total never change again.
type Parcela struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	FinanciamentoID uuid.UUID       `json:"financiamento_id" db:"financiamento_id"`
	Numero          int             `json:"numero" db:"numero"`
	DataVencimento  time.Time       `json:"data_vencimento" db:"data_vencimento"`
	DataPagamento   *time.Time      `json:"data_pagamento,omitempty" db:"data_pagamento"`
	ValorOriginal   decimal.Decimal `json:"valor_original" db:"valor_original"`
	ValorJuros      decimal.Decimal `json:"valor_juros" db:"valor_juros"`
	ValorMulta      decimal.Decimal `json:"valor_multa" db:"valor_multa"`
	ValorTotal      decimal.Decimal `json:"valor_total" db:"valor_total"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

type ScheduleResponse struct {
	FinanciamentoID uuid.UUID  `json:"financiamento_id"`
	Parcelas        []*Parcela `json:"parcelas"`
}
