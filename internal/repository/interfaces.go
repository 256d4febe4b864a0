package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/motocred/financing-engine/internal/domain"
)

// ContractRepository defines the interface for financing contract data
// operations. Contracts own their installments; every read returns the
// contract with its full ordered installment list.
type ContractRepository interface {
	// Create persists a new contract with its installments and flips the
	// financed vehicle to vendida, all in one transaction.
	Create(ctx context.Context, contrato *domain.Financiamento) error

	// GetByID retrieves a contract and its installments
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Financiamento, error)

	// GetAll retrieves the full contract snapshot, installments included
	GetAll(ctx context.Context) ([]*domain.Financiamento, error)

	// Update rewrites a contract's derived fields and all of its installments
	Update(ctx context.Context, contrato *domain.Financiamento) error

	// ExistsByMotoID reports whether any contract references the vehicle
	ExistsByMotoID(ctx context.Context, motoID uuid.UUID) (bool, error)

	// NextNumero returns the next sequential contract number
	NextNumero(ctx context.Context) (int, error)
}

// VehicleRepository defines the interface for motorcycle inventory data
// operations
type VehicleRepository interface {
	// Create registers a new vehicle in stock
	Create(ctx context.Context, moto *domain.Moto) error

	// GetByID retrieves a vehicle
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Moto, error)

	// GetAll retrieves every vehicle
	GetAll(ctx context.Context) ([]*domain.Moto, error)

	// Delete removes a vehicle from the registry
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository defines the interface for customer registry data
// operations
type CustomerRepository interface {
	// Create registers a new customer
	Create(ctx context.Context, cliente *domain.Cliente) error

	// GetByID retrieves a customer
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cliente, error)

	// GetAll retrieves every customer
	GetAll(ctx context.Context) ([]*domain.Cliente, error)
}
