package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrValidation         = errors.New("invalid input")
	ErrContractNotFound   = errors.New("financing contract not found")
	ErrInstallmentMissing = errors.New("installment not found in contract")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrVehicleUnavailable = errors.New("vehicle is not in stock")
	ErrVehicleInUse       = errors.New("vehicle is referenced by a financing contract")
	ErrAlreadyPaid        = errors.New("installment is already paid")
	ErrInvalidSchedule    = errors.New("invalid schedule parameters")
	ErrCorruptSchedule    = errors.New("corrupt installment data")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeContractNotFound   = "CONTRACT_NOT_FOUND"
	ErrCodeInstallmentMissing = "INSTALLMENT_NOT_FOUND"
	ErrCodeVehicleNotFound    = "VEHICLE_NOT_FOUND"
	ErrCodeVehicleUnavailable = "VEHICLE_UNAVAILABLE"
	ErrCodeVehicleInUse       = "VEHICLE_IN_USE"
	ErrCodeAlreadyPaid        = "INSTALLMENT_ALREADY_PAID"
	ErrCodeInvalidSchedule    = "INVALID_SCHEDULE"
	ErrCodeCorruptSchedule    = "CORRUPT_SCHEDULE"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeCacheError         = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapValidation(message string, err error) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, errors.Join(ErrValidation, err))
}

func WrapContractNotFound(contractID string) *BusinessError {
	return NewBusinessError(
		ErrCodeContractNotFound,
		fmt.Sprintf("Financing contract %s not found", contractID),
		ErrContractNotFound,
	)
}

func WrapInstallmentMissing(contractID string, numero int) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentMissing,
		fmt.Sprintf("Contract %s has no installment #%d", contractID, numero),
		ErrInstallmentMissing,
	)
}

func WrapVehicleNotFound(vehicleID string) *BusinessError {
	return NewBusinessError(
		ErrCodeVehicleNotFound,
		fmt.Sprintf("Vehicle %s not found", vehicleID),
		ErrVehicleNotFound,
	)
}

func WrapVehicleUnavailable(vehicleID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeVehicleUnavailable,
		fmt.Sprintf("Vehicle %s is %s, not available for sale", vehicleID, status),
		ErrVehicleUnavailable,
	)
}

func WrapVehicleInUse(vehicleID string) *BusinessError {
	return NewBusinessError(
		ErrCodeVehicleInUse,
		fmt.Sprintf("Vehicle %s is referenced by a financing contract and cannot be deleted", vehicleID),
		ErrVehicleInUse,
	)
}

func WrapAlreadyPaid(contractID string, numero int) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyPaid,
		fmt.Sprintf("Installment #%d of contract %s is already paid", numero, contractID),
		ErrAlreadyPaid,
	)
}

func WrapInvalidSchedule(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidSchedule, message, ErrInvalidSchedule)
}

func WrapCorruptSchedule(contractID string, numero int, message string) *BusinessError {
	return NewBusinessError(
		ErrCodeCorruptSchedule,
		fmt.Sprintf("Contract %s installment #%d: %s", contractID, numero, message),
		ErrCorruptSchedule,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
