package alerting

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de alertas
var (
	// Erros de validação
	ErrAlertNotFound     = errors.New("alert not found")
	ErrInvalidTransition = errors.New("invalid alert status transition")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("database operation error")
	ErrCreateAlert       = errors.New("error creating alert")
)

// AlertError é um erro com contexto adicional para alertas
type AlertError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	AlertID int64  // ID do alerta envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *AlertError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *AlertError) Unwrap() error {
	return e.Err
}

// NewAlertError cria um novo AlertError
func NewAlertError(err error, code string, details string) *AlertError {
	return &AlertError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewAlertErrorWithID cria um novo AlertError com ID do alerta
func NewAlertErrorWithID(err error, code string, alertID int64, details string) *AlertError {
	return &AlertError{
		Err:     err,
		Code:    code,
		AlertID: alertID,
		Details: details,
	}
}
