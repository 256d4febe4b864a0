package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/motocred/financing-engine/internal/config"
	"github.com/motocred/financing-engine/internal/domain"
	"github.com/motocred/financing-engine/internal/service"
	customError "github.com/motocred/financing-engine/pkg/errors"
	"github.com/motocred/financing-engine/tests/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			DefaultLateInterestRate: "2",
			DefaultLatePenalty:      "50",
			DefaultFinancingRate:    "0",
			DashboardCacheTTL:       "30s",
		},
	}
}

func newService(contractRepo *mocks.MockContractRepository, vehicleRepo *mocks.MockVehicleRepository, customerRepo *mocks.MockCustomerRepository) *service.FinancingService {
	return service.NewFinancingService(contractRepo, vehicleRepo, customerRepo, nil, testConfig())
}

func storedContract(t *testing.T) *domain.Financiamento {
	t.Helper()

	contrato := &domain.Financiamento{
		ID:                 uuid.New(),
		Numero:             7,
		ClienteID:          uuid.New(),
		MotoID:             uuid.New(),
		ValorEntrada:       decimal.NewFromInt(15000),
		QuantidadeParcelas: 12,
		TaxaJurosAtraso:    decimal.NewFromInt(2),
		ValorMultaAtraso:   decimal.NewFromInt(50),
		DataContrato:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:             domain.ContratoStatusAtivo,
	}
	parcelas, err := domain.GerarParcelas(contrato.ID, contrato.DataContrato,
		decimal.NewFromInt(30000), 12, decimal.NewFromInt(2500))
	require.NoError(t, err)
	contrato.Parcelas = parcelas
	contrato.RecomputeTotals()
	return contrato
}

func TestCreateContract(t *testing.T) {
	clienteID := uuid.New()
	motoID := uuid.New()

	tests := []struct {
		name        string
		request     *domain.CreateContractRequest
		setupMocks  func(*mocks.MockContractRepository, *mocks.MockVehicleRepository, *mocks.MockCustomerRepository)
		expectedErr error
		validate    func(*testing.T, *domain.Financiamento)
	}{
		{
			name: "Success - even schedule with defaults",
			request: &domain.CreateContractRequest{
				ClienteID:          clienteID,
				MotoID:             motoID,
				ValorEntrada:       decimal.NewFromInt(15000),
				QuantidadeParcelas: 12,
				DataContrato:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			},
			setupMocks: func(contractRepo *mocks.MockContractRepository, vehicleRepo *mocks.MockVehicleRepository, customerRepo *mocks.MockCustomerRepository) {
				customerRepo.On("GetByID", mock.Anything, clienteID).Return(&domain.Cliente{ID: clienteID, Nome: "Ana"}, nil)
				vehicleRepo.On("GetByID", mock.Anything, motoID).Return(&domain.Moto{
					ID:     motoID,
					Valor:  decimal.NewFromInt(45000),
					Status: domain.MotoStatusEstoque,
				}, nil)
				contractRepo.On("NextNumero", mock.Anything).Return(8, nil)
				contractRepo.On("Create", mock.Anything, mock.MatchedBy(func(f *domain.Financiamento) bool {
					return f.MotoID == motoID && len(f.Parcelas) == 12
				})).Return(nil)
			},
			validate: func(t *testing.T, contrato *domain.Financiamento) {
				assert.Equal(t, 8, contrato.Numero)
				assert.Equal(t, domain.ContratoStatusAtivo, contrato.Status)
				// principal 30000 over 12 installments, no markup
				assert.True(t, contrato.ValorFinanciado.Equal(decimal.NewFromInt(30000)))
				assert.True(t, contrato.ValorTotal.Equal(decimal.NewFromInt(45000)))
				// policy defaults from config
				assert.True(t, contrato.TaxaJurosAtraso.Equal(decimal.NewFromInt(2)))
				assert.True(t, contrato.ValorMultaAtraso.Equal(decimal.NewFromInt(50)))
			},
		},
		{
			name: "Success - entrada above vehicle price clamps principal",
			request: &domain.CreateContractRequest{
				ClienteID:          clienteID,
				MotoID:             motoID,
				ValorEntrada:       decimal.NewFromInt(50000),
				QuantidadeParcelas: 6,
			},
			setupMocks: func(contractRepo *mocks.MockContractRepository, vehicleRepo *mocks.MockVehicleRepository, customerRepo *mocks.MockCustomerRepository) {
				customerRepo.On("GetByID", mock.Anything, clienteID).Return(&domain.Cliente{ID: clienteID}, nil)
				vehicleRepo.On("GetByID", mock.Anything, motoID).Return(&domain.Moto{
					ID:     motoID,
					Valor:  decimal.NewFromInt(45000),
					Status: domain.MotoStatusEstoque,
				}, nil)
				contractRepo.On("NextNumero", mock.Anything).Return(1, nil)
				contractRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			validate: func(t *testing.T, contrato *domain.Financiamento) {
				assert.True(t, contrato.ValorFinanciado.IsZero())
				assert.True(t, contrato.ValorTotal.Equal(decimal.NewFromInt(50000)))
			},
		},
		{
			name: "Failure - vehicle already sold",
			request: &domain.CreateContractRequest{
				ClienteID:          clienteID,
				MotoID:             motoID,
				QuantidadeParcelas: 12,
			},
			setupMocks: func(contractRepo *mocks.MockContractRepository, vehicleRepo *mocks.MockVehicleRepository, customerRepo *mocks.MockCustomerRepository) {
				customerRepo.On("GetByID", mock.Anything, clienteID).Return(&domain.Cliente{ID: clienteID}, nil)
				vehicleRepo.On("GetByID", mock.Anything, motoID).Return(&domain.Moto{
					ID:     motoID,
					Valor:  decimal.NewFromInt(45000),
					Status: domain.MotoStatusVendida,
				}, nil)
			},
			expectedErr: customError.ErrVehicleUnavailable,
		},
		{
			name: "Failure - unknown customer",
			request: &domain.CreateContractRequest{
				ClienteID:          clienteID,
				MotoID:             motoID,
				QuantidadeParcelas: 12,
			},
			setupMocks: func(contractRepo *mocks.MockContractRepository, vehicleRepo *mocks.MockVehicleRepository, customerRepo *mocks.MockCustomerRepository) {
				customerRepo.On("GetByID", mock.Anything, clienteID).Return(nil, sql.ErrNoRows)
			},
			expectedErr: customError.ErrValidation,
		},
		{
			name: "Failure - zero installment count",
			request: &domain.CreateContractRequest{
				ClienteID:          clienteID,
				MotoID:             motoID,
				ValorEntrada:       decimal.NewFromInt(15000),
				QuantidadeParcelas: 0,
			},
			setupMocks:  func(*mocks.MockContractRepository, *mocks.MockVehicleRepository, *mocks.MockCustomerRepository) {},
			expectedErr: customError.ErrInvalidSchedule,
		},
		{
			name: "Failure - installment count above limit",
			request: &domain.CreateContractRequest{
				ClienteID:          clienteID,
				MotoID:             motoID,
				QuantidadeParcelas: domain.MaxParcelas + 1,
			},
			setupMocks:  func(*mocks.MockContractRepository, *mocks.MockVehicleRepository, *mocks.MockCustomerRepository) {},
			expectedErr: customError.ErrInvalidSchedule,
		},
		{
			name: "Failure - negative down payment",
			request: &domain.CreateContractRequest{
				ClienteID:          clienteID,
				MotoID:             motoID,
				ValorEntrada:       decimal.NewFromInt(-1),
				QuantidadeParcelas: 12,
			},
			setupMocks:  func(*mocks.MockContractRepository, *mocks.MockVehicleRepository, *mocks.MockCustomerRepository) {},
			expectedErr: customError.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contractRepo := new(mocks.MockContractRepository)
			vehicleRepo := new(mocks.MockVehicleRepository)
			customerRepo := new(mocks.MockCustomerRepository)
			tt.setupMocks(contractRepo, vehicleRepo, customerRepo)

			svc := newService(contractRepo, vehicleRepo, customerRepo)
			contrato, err := svc.CreateContract(context.Background(), tt.request)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, contrato)
			} else {
				require.NoError(t, err)
				require.NotNil(t, contrato)
				tt.validate(t, contrato)
			}

			contractRepo.AssertExpectations(t)
			vehicleRepo.AssertExpectations(t)
			customerRepo.AssertExpectations(t)
		})
	}
}

func TestCreateContractAppliesDefaultFinancingRate(t *testing.T) {
	clienteID := uuid.New()
	motoID := uuid.New()

	contractRepo := new(mocks.MockContractRepository)
	vehicleRepo := new(mocks.MockVehicleRepository)
	customerRepo := new(mocks.MockCustomerRepository)

	customerRepo.On("GetByID", mock.Anything, clienteID).Return(&domain.Cliente{ID: clienteID}, nil)
	vehicleRepo.On("GetByID", mock.Anything, motoID).Return(&domain.Moto{
		ID:     motoID,
		Valor:  decimal.NewFromInt(45000),
		Status: domain.MotoStatusEstoque,
	}, nil)
	contractRepo.On("NextNumero", mock.Anything).Return(1, nil)
	contractRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	cfg := testConfig()
	cfg.Business.DefaultFinancingRate = "5"
	svc := service.NewFinancingService(contractRepo, vehicleRepo, customerRepo, nil, cfg)

	contrato, err := svc.CreateContract(context.Background(), &domain.CreateContractRequest{
		ClienteID:          clienteID,
		MotoID:             motoID,
		ValorEntrada:       decimal.NewFromInt(15000),
		QuantidadeParcelas: 12,
		DataContrato:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// principal 30000 over 12 installments with the 5% policy markup
	assert.True(t, contrato.TaxaFinanciamento.Equal(decimal.NewFromInt(5)))
	assert.True(t, contrato.Parcela(1).ValorOriginal.Equal(decimal.NewFromInt(2625)),
		"got %s", contrato.Parcela(1).ValorOriginal)
}

func TestRegisterPayment(t *testing.T) {
	t.Run("settles installment with operator amount", func(t *testing.T) {
		contrato := storedContract(t)
		domain.Recalcular([]*domain.Financiamento{contrato}, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

		contractRepo := new(mocks.MockContractRepository)
		contractRepo.On("GetByID", mock.Anything, contrato.ID).Return(contrato, nil)
		contractRepo.On("Update", mock.Anything, contrato).Return(nil)

		svc := newService(contractRepo, new(mocks.MockVehicleRepository), new(mocks.MockCustomerRepository))

		pago := time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)
		updated, err := svc.RegisterPayment(context.Background(), contrato.ID, &domain.RegisterPaymentRequest{
			NumeroParcela: 1,
			DataPagamento: pago,
			ValorPago:     decimal.NewFromInt(4250),
		})
		require.NoError(t, err)

		p1 := updated.Parcela(1)
		assert.Equal(t, domain.ParcelaStatusPaga, p1.Status)
		assert.True(t, p1.ValorTotal.Equal(decimal.NewFromInt(4250)))
		require.NotNil(t, p1.DataPagamento)
		assert.True(t, p1.DataPagamento.Equal(pago))

		// #2 still overdue, so the contract stays inadimplente.
		assert.Equal(t, domain.ContratoStatusInadimplente, updated.Status)
		contractRepo.AssertExpectations(t)
	})

	t.Run("second payment is rejected without side effects", func(t *testing.T) {
		contrato := storedContract(t)
		pago := time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)
		p1 := contrato.Parcela(1)
		p1.Status = domain.ParcelaStatusPaga
		p1.DataPagamento = &pago
		p1.ValorTotal = decimal.NewFromInt(4250)

		contractRepo := new(mocks.MockContractRepository)
		contractRepo.On("GetByID", mock.Anything, contrato.ID).Return(contrato, nil)

		svc := newService(contractRepo, new(mocks.MockVehicleRepository), new(mocks.MockCustomerRepository))

		_, err := svc.RegisterPayment(context.Background(), contrato.ID, &domain.RegisterPaymentRequest{
			NumeroParcela: 1,
			ValorPago:     decimal.NewFromInt(4250),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, customError.ErrAlreadyPaid)

		assert.True(t, p1.ValorTotal.Equal(decimal.NewFromInt(4250)))
		contractRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("last payment settles the contract", func(t *testing.T) {
		contrato := storedContract(t)
		pago := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
		for _, p := range contrato.Parcelas[:11] {
			p.Status = domain.ParcelaStatusPaga
			p.DataPagamento = &pago
		}

		contractRepo := new(mocks.MockContractRepository)
		contractRepo.On("GetByID", mock.Anything, contrato.ID).Return(contrato, nil)
		contractRepo.On("Update", mock.Anything, contrato).Return(nil)

		svc := newService(contractRepo, new(mocks.MockVehicleRepository), new(mocks.MockCustomerRepository))

		updated, err := svc.RegisterPayment(context.Background(), contrato.ID, &domain.RegisterPaymentRequest{
			NumeroParcela: 12,
			DataPagamento: pago,
			ValorPago:     decimal.NewFromInt(2500),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ContratoStatusQuitado, updated.Status)
	})

	t.Run("unknown installment", func(t *testing.T) {
		contrato := storedContract(t)

		contractRepo := new(mocks.MockContractRepository)
		contractRepo.On("GetByID", mock.Anything, contrato.ID).Return(contrato, nil)

		svc := newService(contractRepo, new(mocks.MockVehicleRepository), new(mocks.MockCustomerRepository))

		_, err := svc.RegisterPayment(context.Background(), contrato.ID, &domain.RegisterPaymentRequest{
			NumeroParcela: 13,
			ValorPago:     decimal.NewFromInt(2500),
		})
		assert.ErrorIs(t, err, customError.ErrInstallmentMissing)
	})
}

func TestEditInstallment(t *testing.T) {
	t.Run("renegotiation keeps accrued penalties and re-derives totals", func(t *testing.T) {
		contrato := storedContract(t)
		domain.Recalcular([]*domain.Financiamento{contrato}, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

		contractRepo := new(mocks.MockContractRepository)
		contractRepo.On("GetByID", mock.Anything, contrato.ID).Return(contrato, nil)
		contractRepo.On("Update", mock.Anything, contrato).Return(nil)

		svc := newService(contractRepo, new(mocks.MockVehicleRepository), new(mocks.MockCustomerRepository))

		updated, err := svc.EditInstallment(context.Background(), contrato.ID, &domain.EditInstallmentRequest{
			NumeroParcela: 1,
			ValorOriginal: decimal.NewFromInt(2000),
		})
		require.NoError(t, err)

		p1 := updated.Parcela(1)
		assert.True(t, p1.ValorOriginal.Equal(decimal.NewFromInt(2000)))
		// juros 1700 + multa 50 stay until the next sweep
		assert.True(t, p1.ValorTotal.Equal(decimal.NewFromInt(3750)), "got %s", p1.ValorTotal)

		// conservation: valor_total = entrada + sum of originals
		assert.True(t, updated.ValorFinanciado.Equal(decimal.NewFromInt(29500)))
		assert.True(t, updated.ValorTotal.Equal(decimal.NewFromInt(44500)))
	})

	t.Run("paid installment cannot be edited", func(t *testing.T) {
		contrato := storedContract(t)
		pago := time.Now()
		contrato.Parcela(1).Status = domain.ParcelaStatusPaga
		contrato.Parcela(1).DataPagamento = &pago

		contractRepo := new(mocks.MockContractRepository)
		contractRepo.On("GetByID", mock.Anything, contrato.ID).Return(contrato, nil)

		svc := newService(contractRepo, new(mocks.MockVehicleRepository), new(mocks.MockCustomerRepository))

		_, err := svc.EditInstallment(context.Background(), contrato.ID, &domain.EditInstallmentRequest{
			NumeroParcela: 1,
			ValorOriginal: decimal.NewFromInt(2000),
		})
		assert.ErrorIs(t, err, customError.ErrAlreadyPaid)
	})
}

func TestDeleteVehicle(t *testing.T) {
	motoID := uuid.New()

	t.Run("blocked while referenced by a contract", func(t *testing.T) {
		contractRepo := new(mocks.MockContractRepository)
		contractRepo.On("ExistsByMotoID", mock.Anything, motoID).Return(true, nil)
		vehicleRepo := new(mocks.MockVehicleRepository)

		svc := newService(contractRepo, vehicleRepo, new(mocks.MockCustomerRepository))

		err := svc.DeleteVehicle(context.Background(), motoID)
		assert.ErrorIs(t, err, customError.ErrVehicleInUse)
		vehicleRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unreferenced vehicle is removed", func(t *testing.T) {
		contractRepo := new(mocks.MockContractRepository)
		contractRepo.On("ExistsByMotoID", mock.Anything, motoID).Return(false, nil)
		vehicleRepo := new(mocks.MockVehicleRepository)
		vehicleRepo.On("Delete", mock.Anything, motoID).Return(nil)

		svc := newService(contractRepo, vehicleRepo, new(mocks.MockCustomerRepository))

		require.NoError(t, svc.DeleteVehicle(context.Background(), motoID))
		vehicleRepo.AssertExpectations(t)
	})
}

func TestRecalculatePersistsOnlyChangedContracts(t *testing.T) {
	atrasado := storedContract(t)
	quitado := storedContract(t)
	pago := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, p := range quitado.Parcelas {
		p.Status = domain.ParcelaStatusPaga
		p.DataPagamento = &pago
	}
	quitado.Status = domain.ContratoStatusQuitado

	contractRepo := new(mocks.MockContractRepository)
	contractRepo.On("GetAll", mock.Anything).Return([]*domain.Financiamento{atrasado, quitado}, nil)
	contractRepo.On("Update", mock.Anything, atrasado).Return(nil)

	svc := newService(contractRepo, new(mocks.MockVehicleRepository), new(mocks.MockCustomerRepository))

	result, err := svc.Recalculate(context.Background(), time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, result.ContratosAlterados, 1)
	assert.Equal(t, atrasado.ID, result.ContratosAlterados[0])
	assert.Equal(t, 2, result.NovasAtrasadas)

	// The settled contract was not rewritten.
	contractRepo.AssertNumberOfCalls(t, "Update", 1)
}

func TestDashboardSummary(t *testing.T) {
	contrato := storedContract(t)
	domain.Recalcular([]*domain.Financiamento{contrato}, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

	contractRepo := new(mocks.MockContractRepository)
	contractRepo.On("GetAll", mock.Anything).Return([]*domain.Financiamento{contrato}, nil)
	vehicleRepo := new(mocks.MockVehicleRepository)
	vehicleRepo.On("GetAll", mock.Anything).Return([]*domain.Moto{
		{Status: domain.MotoStatusEstoque},
		{Status: domain.MotoStatusVendida},
	}, nil)

	svc := newService(contractRepo, vehicleRepo, new(mocks.MockCustomerRepository))

	summary, err := svc.DashboardSummary(context.Background(), time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.MotosPorStatus[domain.MotoStatusEstoque])
	assert.Equal(t, 1, summary.ContratosPorStatus[domain.ContratoStatusInadimplente])
	assert.Equal(t, 2, summary.ParcelasAtrasadas)
	assert.True(t, summary.TotalEmAtraso.Equal(decimal.NewFromInt(7050)), "got %s", summary.TotalEmAtraso)
	// contract signed 2024-01-15, queried within January
	assert.Equal(t, 1, summary.VendasNoMes)
}
