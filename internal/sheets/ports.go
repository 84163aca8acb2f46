package sheets

import (
	"context"

	"financas/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionWriter appends one transaction to the export and returns a
	// reference to where it landed.
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}
)

// Header names the exported columns, in order.
var Header = []string{"Data", "Descrição", "Categoria", "Valor", "Tipo", "Pagamento", "Usuário", "ID"}
