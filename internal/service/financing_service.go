package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/motocred/financing-engine/internal/config"
	"github.com/motocred/financing-engine/internal/domain"
	"github.com/motocred/financing-engine/internal/repository"
	"github.com/motocred/financing-engine/pkg/dateutil"
	customError "github.com/motocred/financing-engine/pkg/errors"
)

// FinancingService orchestrates contract creation, payment registration,
// installment edits and the periodic penalty recalculation. A single mutex
// serializes every mutation and sweep against the same snapshot: mutations
// never interleave, and a sweep never runs concurrently with a pending edit.
type FinancingService struct {
	ContractRepo repository.ContractRepository
	VehicleRepo  repository.VehicleRepository
	CustomerRepo repository.CustomerRepository
	redis        *redis.Client
	config       *config.Config

	mu sync.Mutex
}

func NewFinancingService(
	contractRepo repository.ContractRepository,
	vehicleRepo repository.VehicleRepository,
	customerRepo repository.CustomerRepository,
	redis *redis.Client,
	config *config.Config,
) *FinancingService {
	return &FinancingService{
		ContractRepo: contractRepo,
		VehicleRepo:  vehicleRepo,
		CustomerRepo: customerRepo,
		redis:        redis,
		config:       config,
	}
}

// CreateContract sells a vehicle to a customer under a financing plan. The
// vehicle must be in stock; it is flipped to vendida in the same transaction
// that persists the contract, so either both land or neither does.
func (s *FinancingService) CreateContract(ctx context.Context, request *domain.CreateContractRequest) (*domain.Financiamento, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if request.ValorEntrada.IsNegative() {
		return nil, customError.WrapValidation("down payment must not be negative", nil)
	}
	if request.QuantidadeParcelas < 1 || request.QuantidadeParcelas > domain.MaxParcelas {
		return nil, customError.WrapInvalidSchedule(fmt.Sprintf(
			"installment count must be between 1 and %d, got %d",
			domain.MaxParcelas, request.QuantidadeParcelas))
	}

	if _, err := s.CustomerRepo.GetByID(ctx, request.ClienteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapValidation("customer not found", err)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	moto, err := s.VehicleRepo.GetByID(ctx, request.MotoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapVehicleNotFound(request.MotoID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	if moto.Status != domain.MotoStatusEstoque {
		return nil, customError.WrapVehicleUnavailable(moto.ID.String(), moto.Status)
	}

	// Principal is the vehicle price minus the down payment, never negative:
	// an entrada above the price simply finances nothing.
	principal := moto.Valor.Sub(request.ValorEntrada)
	if principal.IsNegative() {
		principal = decimal.Zero
	}

	dataContrato := request.DataContrato
	if dataContrato.IsZero() {
		dataContrato = time.Now()
	}
	dataContrato = dateutil.StartOfDay(dataContrato)

	taxaJuros := request.TaxaJurosAtraso
	if taxaJuros.IsZero() {
		taxaJuros = s.config.GetDefaultLateInterestRate()
	}
	multa := request.ValorMultaAtraso
	if multa.IsZero() {
		multa = s.config.GetDefaultLatePenalty()
	}
	taxaFinanciamento := request.TaxaFinanciamento
	if taxaFinanciamento.IsZero() {
		taxaFinanciamento = s.config.GetDefaultFinancingRate()
	}

	var valorParcela decimal.Decimal
	if request.ValorParcela != nil {
		valorParcela = *request.ValorParcela
	} else {
		valorParcela = domain.ValorParcelaComTaxa(principal, request.QuantidadeParcelas, taxaFinanciamento)
	}

	contrato := &domain.Financiamento{
		ID:                 uuid.New(),
		ClienteID:          request.ClienteID,
		MotoID:             request.MotoID,
		ValorEntrada:       request.ValorEntrada,
		QuantidadeParcelas: request.QuantidadeParcelas,
		TaxaJurosAtraso:    taxaJuros,
		ValorMultaAtraso:   multa,
		TaxaFinanciamento:  taxaFinanciamento,
		DataContrato:       dataContrato,
		Status:             domain.ContratoStatusAtivo,
	}

	parcelas, err := domain.GerarParcelas(contrato.ID, dataContrato, principal, request.QuantidadeParcelas, valorParcela)
	if err != nil {
		return nil, err
	}
	contrato.Parcelas = parcelas
	contrato.RecomputeTotals()

	numero, err := s.ContractRepo.NextNumero(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	contrato.Numero = numero

	if err := s.ContractRepo.Create(ctx, contrato); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return contrato, nil
}

// RegisterPayment settles one installment. The operator-entered amount is
// authoritative and never recomputed afterwards; the installment becomes
// terminal. Paying an already-paid installment is a guarded no-op.
func (s *FinancingService) RegisterPayment(ctx context.Context, contratoID uuid.UUID, request *domain.RegisterPaymentRequest) (*domain.Financiamento, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contrato, err := s.getContract(ctx, contratoID)
	if err != nil {
		return nil, err
	}

	parcela := contrato.Parcela(request.NumeroParcela)
	if parcela == nil {
		return nil, customError.WrapInstallmentMissing(contratoID.String(), request.NumeroParcela)
	}
	if parcela.Status == domain.ParcelaStatusPaga {
		return nil, customError.WrapAlreadyPaid(contratoID.String(), request.NumeroParcela)
	}
	if request.ValorPago.IsNegative() {
		return nil, customError.WrapValidation("paid amount must not be negative", nil)
	}

	dataPagamento := request.DataPagamento
	if dataPagamento.IsZero() {
		dataPagamento = time.Now()
	}

	valorPago := request.ValorPago
	if valorPago.IsZero() {
		// Blank amount settles the currently computed total.
		valorPago = parcela.ValorTotal
	}

	parcela.Status = domain.ParcelaStatusPaga
	parcela.DataPagamento = &dataPagamento
	parcela.ValorTotal = valorPago
	contrato.DeriveStatus()

	if err := s.ContractRepo.Update(ctx, contrato); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return contrato, nil
}

// EditInstallment renegotiates an unpaid installment's original value and
// re-derives the contract totals. Accrued interest and penalty figures are
// kept as-is until the next recalculation sweep.
func (s *FinancingService) EditInstallment(ctx context.Context, contratoID uuid.UUID, request *domain.EditInstallmentRequest) (*domain.Financiamento, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if request.ValorOriginal.IsNegative() {
		return nil, customError.WrapValidation("installment value must not be negative", nil)
	}

	contrato, err := s.getContract(ctx, contratoID)
	if err != nil {
		return nil, err
	}

	parcela := contrato.Parcela(request.NumeroParcela)
	if parcela == nil {
		return nil, customError.WrapInstallmentMissing(contratoID.String(), request.NumeroParcela)
	}
	if parcela.Status == domain.ParcelaStatusPaga {
		return nil, customError.WrapAlreadyPaid(contratoID.String(), request.NumeroParcela)
	}

	parcela.ValorOriginal = request.ValorOriginal
	parcela.ValorTotal = request.ValorOriginal.Add(parcela.ValorJuros).Add(parcela.ValorMulta)
	contrato.RecomputeTotals()

	if err := s.ContractRepo.Update(ctx, contrato); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return contrato, nil
}

// DeleteVehicle removes a vehicle from the registry. Vehicles referenced by
// any contract, whatever its status, stay.
func (s *FinancingService) DeleteVehicle(ctx context.Context, motoID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inUse, err := s.ContractRepo.ExistsByMotoID(ctx, motoID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if inUse {
		return customError.WrapVehicleInUse(motoID.String())
	}

	if err := s.VehicleRepo.Delete(ctx, motoID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return nil
}

// CreateVehicle registers a new motorcycle in stock.
func (s *FinancingService) CreateVehicle(ctx context.Context, request *domain.CreateMotoRequest) (*domain.Moto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if request.Valor.IsNegative() {
		return nil, customError.WrapValidation("vehicle price must not be negative", nil)
	}

	moto := &domain.Moto{
		ID:     uuid.New(),
		Marca:  request.Marca,
		Modelo: request.Modelo,
		Ano:    request.Ano,
		Placa:  request.Placa,
		Valor:  request.Valor,
		Status: domain.MotoStatusEstoque,
	}

	if err := s.VehicleRepo.Create(ctx, moto); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return moto, nil
}

// Recalculate runs one penalty sweep over the full snapshot as of hoje and
// persists every contract the sweep changed. Data-integrity issues are
// collected in the result and logged, never abort the sweep.
func (s *FinancingService) Recalculate(ctx context.Context, hoje time.Time) (*domain.RecalcResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contratos, err := s.ContractRepo.GetAll(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	result := domain.Recalcular(contratos, hoje)

	changed := make(map[uuid.UUID]bool, len(result.ContratosAlterados))
	for _, id := range result.ContratosAlterados {
		changed[id] = true
	}
	for _, contrato := range contratos {
		if !changed[contrato.ID] {
			continue
		}
		if err := s.ContractRepo.Update(ctx, contrato); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
	}

	for _, issue := range result.Issues {
		log.Printf("recalculation sweep: %v", issue.Err())
	}

	if len(result.ContratosAlterados) > 0 {
		s.invalidateDashboard(ctx)
	}
	return result, nil
}

// GetContract returns one contract with its installments, refreshed as of
// hoje before being returned.
func (s *FinancingService) GetContract(ctx context.Context, contratoID uuid.UUID, hoje time.Time) (*domain.Financiamento, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contrato, err := s.getContract(ctx, contratoID)
	if err != nil {
		return nil, err
	}

	result := domain.Recalcular([]*domain.Financiamento{contrato}, hoje)
	if len(result.ContratosAlterados) > 0 {
		if err := s.ContractRepo.Update(ctx, contrato); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		s.invalidateDashboard(ctx)
	}

	return contrato, nil
}

// GetContracts returns the current contract snapshot without refreshing it.
func (s *FinancingService) GetContracts(ctx context.Context) ([]*domain.Financiamento, error) {
	contratos, err := s.ContractRepo.GetAll(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return contratos, nil
}

// GetVehicles returns the vehicle registry.
func (s *FinancingService) GetVehicles(ctx context.Context) ([]*domain.Moto, error) {
	motos, err := s.VehicleRepo.GetAll(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return motos, nil
}

// CreateCustomer registers a new customer.
func (s *FinancingService) CreateCustomer(ctx context.Context, cliente *domain.Cliente) (*domain.Cliente, error) {
	if cliente.Nome == "" {
		return nil, customError.WrapValidation("customer name is required", nil)
	}
	if cliente.ID == uuid.Nil {
		cliente.ID = uuid.New()
	}
	if err := s.CustomerRepo.Create(ctx, cliente); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return cliente, nil
}

func (s *FinancingService) getContract(ctx context.Context, contratoID uuid.UUID) (*domain.Financiamento, error) {
	contrato, err := s.ContractRepo.GetByID(ctx, contratoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapContractNotFound(contratoID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return contrato, nil
}

func (s *FinancingService) invalidateDashboard(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, dashboardCacheKey).Err(); err != nil {
		log.Printf("failed to invalidate dashboard cache: %v", err)
	}
}
