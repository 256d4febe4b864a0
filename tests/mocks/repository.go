package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/motocred/financing-engine/internal/domain"
)

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Create(ctx context.Context, contrato *domain.Financiamento) error {
	args := m.Called(ctx, contrato)
	return args.Error(0)
}

func (m *MockContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Financiamento, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Financiamento), args.Error(1)
}

func (m *MockContractRepository) GetAll(ctx context.Context) ([]*domain.Financiamento, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Financiamento), args.Error(1)
}

func (m *MockContractRepository) Update(ctx context.Context, contrato *domain.Financiamento) error {
	args := m.Called(ctx, contrato)
	return args.Error(0)
}

func (m *MockContractRepository) ExistsByMotoID(ctx context.Context, motoID uuid.UUID) (bool, error) {
	args := m.Called(ctx, motoID)
	return args.Bool(0), args.Error(1)
}

func (m *MockContractRepository) NextNumero(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, moto *domain.Moto) error {
	args := m.Called(ctx, moto)
	return args.Error(0)
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Moto, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Moto), args.Error(1)
}

func (m *MockVehicleRepository) GetAll(ctx context.Context) ([]*domain.Moto, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Moto), args.Error(1)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, cliente *domain.Cliente) error {
	args := m.Called(ctx, cliente)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cliente, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cliente), args.Error(1)
}

func (m *MockCustomerRepository) GetAll(ctx context.Context) ([]*domain.Cliente, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Cliente), args.Error(1)
}
