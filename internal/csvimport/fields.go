package csvimport

import "financas/internal/core"

type field int

const (
	fieldDate field = iota
	fieldDescription
	fieldCategory
	fieldAmount
	fieldPayment
	fieldType
)

// aliases lists the accepted normalized headers per field, in priority order.
var aliases = map[field][]string{
	fieldDate:        {"data", "date"},
	fieldDescription: {"descricao", "description", "historico"},
	fieldCategory:    {"categoria", "category"},
	fieldAmount:      {"valor", "amount"},
	fieldPayment:     {"pagamento", "paymentmethod", "formadepagamento", "metodo"},
	fieldType:        {"tipo", "type"},
}

var typeVocabulary = map[string]core.TransactionType{
	"receita": core.Income,
	"entrada": core.Income,
	"income":  core.Income,
	"ganho":   core.Income,
	"despesa": core.Expense,
	"saida":   core.Expense,
	"expense": core.Expense,
	"gasto":   core.Expense,
}

var paymentVocabulary = map[string]core.PaymentMethod{
	"card":            core.PaymentCard,
	"cartao":          core.PaymentCard,
	"credito":         core.PaymentCard,
	"cartaodecredito": core.PaymentCard,
	"credit":          core.PaymentCard,
	"creditcard":      core.PaymentCard,
	"debit":           core.PaymentDebit,
	"debito":          core.PaymentDebit,
	"cartaodedebito":  core.PaymentDebit,
	"debitcard":       core.PaymentDebit,
	"pix":             core.PaymentPix,
	"cash":            core.PaymentCash,
	"dinheiro":        core.PaymentCash,
	"especie":         core.PaymentCash,
	"transfer":        core.PaymentTransfer,
	"transferencia":   core.PaymentTransfer,
	"ted":             core.PaymentTransfer,
	"doc":             core.PaymentTransfer,
	"wire":            core.PaymentTransfer,
}

// lookup returns the first non-empty value among the aliases of f.
func lookup(row map[string]string, f field) string {
	for _, alias := range aliases[f] {
		if v := row[alias]; v != "" {
			return v
		}
	}
	return ""
}

// resolveType uses the type column when it holds a known word and falls
// back to the amount sign otherwise.
func resolveType(raw string, amount core.Money) core.TransactionType {
	if t, ok := typeVocabulary[Normalize(raw)]; ok {
		return t
	}
	return core.TypeFromAmount(amount)
}

// mapPayment maps free text onto the payment enumeration. Unknown or blank
// values fall back to the first method.
func mapPayment(raw string) core.PaymentMethod {
	if m, ok := paymentVocabulary[Normalize(raw)]; ok {
		return m
	}
	return core.DefaultPaymentMethod()
}
