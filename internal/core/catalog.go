package core

// PaymentMethod values are stored as-is.
type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentDebit    PaymentMethod = "debit"
	PaymentPix      PaymentMethod = "pix"
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// PaymentMethods is ordered; the first entry is the fallback for unknown values.
var PaymentMethods = []PaymentMethod{
	PaymentCard,
	PaymentDebit,
	PaymentPix,
	PaymentCash,
	PaymentTransfer,
}

// Categories is ordered; the last entry is the fallback for blank categories.
var Categories = []string{
	"Alimentação",
	"Transporte",
	"Saúde",
	"Assinaturas",
	"Moradia",
	"Educação",
	"Lazer",
	"Renda",
	"Renda Extra",
	"Outros",
}

func (p PaymentMethod) Valid() bool {
	for _, m := range PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

func DefaultPaymentMethod() PaymentMethod {
	return PaymentMethods[0]
}

func DefaultCategory() string {
	return Categories[len(Categories)-1]
}
