package notifying

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de notificações
var (
	// Erros de validação
	ErrOwnerNotFound        = errors.New("business owner not found")
	ErrChannelNotConfigured = errors.New("notification channel not configured")
	ErrUnknownChannel       = errors.New("unknown notification channel")

	// Erros de banco de dados e envio
	ErrDatabaseOperation = errors.New("database operation error")
	ErrSendFailed        = errors.New("error sending notification")
)

// NotificationError é um erro com contexto adicional para notificações
type NotificationError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	UserID  int    // ID do usuário destinatário (quando aplicável)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *NotificationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *NotificationError) Unwrap() error {
	return e.Err
}

// NewNotificationError cria um novo NotificationError
func NewNotificationError(err error, code string, details string) *NotificationError {
	return &NotificationError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewNotificationErrorWithUser cria um novo NotificationError com ID do usuário
func NewNotificationErrorWithUser(err error, code string, userID int, details string) *NotificationError {
	return &NotificationError{
		Err:     err,
		Code:    code,
		UserID:  userID,
		Details: details,
	}
}
