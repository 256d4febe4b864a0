package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/motocred/financing-engine/internal/domain"
	"github.com/motocred/financing-engine/internal/service"
	customError "github.com/motocred/financing-engine/pkg/errors"
	"github.com/motocred/financing-engine/pkg/response"
)

type FinancingHandler struct {
	service   *service.FinancingService
	validator *validator.Validate
}

func NewFinancingHandler(service *service.FinancingService) *FinancingHandler {
	return &FinancingHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateContract handles POST /financiamentos
func (h *FinancingHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	contrato, err := h.service.CreateContract(r.Context(), &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, contrato)
}

// GetContracts handles GET /financiamentos
func (h *FinancingHandler) GetContracts(w http.ResponseWriter, r *http.Request) {
	contratos, err := h.service.GetContracts(r.Context())
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, contratos)
}

// GetContract handles GET /financiamentos/{contractId}; the contract is
// refreshed against the current date before being returned.
func (h *FinancingHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	contratoID, ok := pathID(w, r, "contractId")
	if !ok {
		return
	}

	contrato, err := h.service.GetContract(r.Context(), contratoID, time.Now())
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, contrato)
}

// RegisterPayment handles POST /financiamentos/{contractId}/pagamentos
func (h *FinancingHandler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	contratoID, ok := pathID(w, r, "contractId")
	if !ok {
		return
	}

	var request domain.RegisterPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	contrato, err := h.service.RegisterPayment(r.Context(), contratoID, &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, contrato)
}

// EditInstallment handles PUT /financiamentos/{contractId}/parcelas
func (h *FinancingHandler) EditInstallment(w http.ResponseWriter, r *http.Request) {
	contratoID, ok := pathID(w, r, "contractId")
	if !ok {
		return
	}

	var request domain.EditInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	contrato, err := h.service.EditInstallment(r.Context(), contratoID, &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, contrato)
}

// Recalculate handles POST /financiamentos/recalcular, forcing a penalty
// sweep outside the scheduler tick.
func (h *FinancingHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Recalculate(r.Context(), time.Now())
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, result)
}

// Dashboard handles GET /dashboard
func (h *FinancingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.DashboardSummary(r.Context(), time.Now())
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, summary)
}

// CreateVehicle handles POST /motos
func (h *FinancingHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateMotoRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	moto, err := h.service.CreateVehicle(r.Context(), &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Created(w, moto)
}

// GetVehicles handles GET /motos
func (h *FinancingHandler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	motos, err := h.service.GetVehicles(r.Context())
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, motos)
}

// DeleteVehicle handles DELETE /motos/{motoId}
func (h *FinancingHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	motoID, ok := pathID(w, r, "motoId")
	if !ok {
		return
	}

	if err := h.service.DeleteVehicle(r.Context(), motoID); err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, map[string]string{"deleted": motoID.String()})
}

// CreateCustomer handles POST /clientes
func (h *FinancingHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var cliente domain.Cliente
	if err := json.NewDecoder(r.Body).Decode(&cliente); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), &cliente)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Created(w, created)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func writeBusinessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customError.ErrContractNotFound),
		errors.Is(err, customError.ErrVehicleNotFound),
		errors.Is(err, customError.ErrInstallmentMissing):
		response.Error(w, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, customError.ErrValidation),
		errors.Is(err, customError.ErrInvalidSchedule):
		response.BadRequest(w, err.Error(), err)
	case errors.Is(err, customError.ErrVehicleUnavailable),
		errors.Is(err, customError.ErrVehicleInUse),
		errors.Is(err, customError.ErrAlreadyPaid):
		response.Error(w, http.StatusConflict, err.Error(), err)
	default:
		response.InternalServerError(w, "internal error", err)
	}
}
