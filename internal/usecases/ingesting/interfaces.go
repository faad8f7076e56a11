package ingesting

import (
	"io"

	"github.com/vfg2006/revenue-monitor-api/internal/domain"
)

// Ingester registra transações de receita, uma a uma ou em lote via CSV.
type Ingester interface {
	// CreateTransaction registra uma transação avulsa. Sem data
	// informada, usa o momento atual.
	CreateTransaction(businessID string, request *domain.CreateTransactionRequest) (*domain.Transaction, error)

	// ImportCSV importa transações de um arquivo CSV com as colunas
	// date, amount e description (opcional). Linhas inválidas são
	// puladas e relatadas com o número da linha.
	ImportCSV(businessID string, reader io.Reader) (*domain.ImportReport, error)
}
