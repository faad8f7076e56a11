package ingesting

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de ingestão
var (
	// Erros de validação
	ErrInvalidDate   = errors.New("invalid transaction date")
	ErrInvalidHeader = errors.New("invalid csv header")
	ErrEmptyFile     = errors.New("empty csv file")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("database operation error")
)

// IngestError é um erro com contexto adicional para ingestão
type IngestError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	BusinessID string // ID do negócio envolvido (quando aplicável)
	Details    string // Detalhes adicionais
}

// Error implementa a interface error
func (e *IngestError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *IngestError) Unwrap() error {
	return e.Err
}

// NewIngestError cria um novo IngestError
func NewIngestError(err error, code string, details string) *IngestError {
	return &IngestError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewIngestErrorWithBusiness cria um novo IngestError com ID do negócio
func NewIngestErrorWithBusiness(err error, code string, businessID string, details string) *IngestError {
	return &IngestError{
		Err:        err,
		Code:       code,
		BusinessID: businessID,
		Details:    details,
	}
}
