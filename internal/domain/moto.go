package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MotoStatusEstoque = "estoque"
	MotoStatusVendida = "vendida"
)

// Moto is a motorcycle in the dealership inventory. The financing engine
// only reads its price and flips its status when a contract is created.
type Moto struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Marca     string          `json:"marca" db:"marca"`
	Modelo    string          `json:"modelo" db:"modelo"`
	Ano       int             `json:"ano" db:"ano"`
	Placa     string          `json:"placa" db:"placa"`
	Valor     decimal.Decimal `json:"valor" db:"valor"`
	Status    string          `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Cliente is a dealership customer, referenced by contracts but owned by the
// customer registry.
type Cliente struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Nome      string    `json:"nome" db:"nome"`
	CPF       string    `json:"cpf" db:"cpf"`
	Telefone  string    `json:"telefone" db:"telefone"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateMotoRequest struct {
	Marca  string          `json:"marca" validate:"required"`
	Modelo string          `json:"modelo" validate:"required"`
	Ano    int             `json:"ano" validate:"required,gte=1950"`
	Placa  string          `json:"placa"`
	Valor  decimal.Decimal `json:"valor" validate:"required"`
}
