package business

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de negócios monitorados
var (
	// Erros de validação
	ErrBusinessIDRequired  = errors.New("business ID is required")
	ErrMissingRequiredData = errors.New("required business data is missing")
	ErrInvalidSegment      = errors.New("invalid business segment")
	ErrBusinessNotFound    = errors.New("business not found")

	// Erros internos
	ErrGenerateID        = errors.New("error generating business ID")
	ErrDatabaseOperation = errors.New("database operation error")
)

// BusinessError é um erro com contexto adicional para negócios
type BusinessError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	BusinessID string // ID do negócio envolvido (quando aplicável)
	Details    string // Detalhes adicionais
}

// Error implementa a interface error
func (e *BusinessError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError cria um novo BusinessError
func NewBusinessError(err error, code string, details string) *BusinessError {
	return &BusinessError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewBusinessErrorWithID cria um novo BusinessError com ID do negócio
func NewBusinessErrorWithID(err error, code string, businessID string, details string) *BusinessError {
	return &BusinessError{
		Err:        err,
		Code:       code,
		BusinessID: businessID,
		Details:    details,
	}
}
