package reporting

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de relatórios
var (
	// Erros de validação
	ErrForecastNotFound = errors.New("forecast not calculated yet")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("database operation error")
)

// ReportError é um erro com contexto adicional para relatórios
type ReportError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	BusinessID string // ID do negócio envolvido (quando aplicável)
	Details    string // Detalhes adicionais
}

// Error implementa a interface error
func (e *ReportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError cria um novo ReportError
func NewReportError(err error, code string, businessID string, details string) *ReportError {
	return &ReportError{
		Err:        err,
		Code:       code,
		BusinessID: businessID,
		Details:    details,
	}
}
