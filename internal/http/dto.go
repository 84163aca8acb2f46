package http

import (
	"time"

	"financas/internal/core"
	"financas/internal/csvimport"
	"financas/internal/metrics"
	"financas/internal/services"
)

// Amounts are encoded by core.Money as decimal strings and dates by
// core.Date as YYYY-MM-DD.

type transactionResponse struct {
	ID            string               `json:"id"`
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	Amount        core.Money           `json:"amount"`
	Date          core.Date            `json:"date"`
	Period        string               `json:"period"`
	PaymentMethod core.PaymentMethod   `json:"payment_method"`
	Type          core.TransactionType `json:"type"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type createTransactionRequest struct {
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	Amount        core.Money           `json:"amount"`
	Date          core.Date            `json:"date"`
	PaymentMethod core.PaymentMethod   `json:"payment_method"`
	Type          core.TransactionType `json:"type,omitempty"`
}

type updateTransactionRequest struct {
	Description   *string               `json:"description"`
	Category      *string               `json:"category"`
	Amount        *core.Money           `json:"amount"`
	Date          *core.Date            `json:"date"`
	PaymentMethod *core.PaymentMethod   `json:"payment_method"`
	Type          *core.TransactionType `json:"type"`
}

type monthViewResponse struct {
	Period       string                `json:"period"`
	Transactions []transactionResponse `json:"transactions"`
	TotalIn      core.Money            `json:"total_in"`
	TotalOut     core.Money            `json:"total_out"`
	Balance      core.Money            `json:"balance"`
}

type recurringResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Category     string               `json:"category"`
	Amount       core.Money           `json:"amount"`
	Frequency    string               `json:"frequency"`
	NextDueDate  core.Date            `json:"next_due_date"`
	Status       core.RecurringStatus `json:"status"`
	DaysUntilDue *int                 `json:"days_until_due,omitempty"`
	DueSoon      bool                 `json:"due_soon"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type createRecurringRequest struct {
	Name        string               `json:"name"`
	Category    string               `json:"category"`
	Amount      core.Money           `json:"amount"`
	Frequency   string               `json:"frequency"`
	NextDueDate core.Date            `json:"next_due_date"`
	Status      core.RecurringStatus `json:"status,omitempty"`
}

type cardResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Brand          core.CardBrand `json:"brand"`
	LastDigits     string         `json:"last_digits"`
	Limit          core.Money     `json:"limit"`
	Used           core.Money     `json:"used"`
	Available      core.Money     `json:"available"`
	UsedPercentage float64        `json:"used_percentage"`
	HighUsage      bool           `json:"high_usage"`
	CloseDay       int            `json:"close_day"`
	DueDay         int            `json:"due_day"`
}

type cardListResponse struct {
	Cards   []cardResponse  `json:"cards"`
	Summary cardSummaryBody `json:"summary"`
}

type cardSummaryBody struct {
	TotalLimit     core.Money `json:"total_limit"`
	TotalUsed      core.Money `json:"total_used"`
	UsedPercentage float64    `json:"used_percentage"`
}

type cardRequest struct {
	Name       *string         `json:"name"`
	Brand      *core.CardBrand `json:"brand"`
	LastDigits *string         `json:"last_digits"`
	Limit      *core.Money     `json:"limit"`
	Used       *core.Money     `json:"used"`
	CloseDay   *int            `json:"close_day"`
	DueDay     *int            `json:"due_day"`
}

type profileResponse struct {
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type updateProfileRequest struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type importResponse struct {
	Imported int               `json:"imported"`
	Rejected int               `json:"rejected"`
	Outcome  csvimport.Outcome `json:"outcome"`
}

type importFailure struct {
	Error    string `json:"error"`
	Imported int    `json:"imported"`
	Rejected int    `json:"rejected"`
	Line     int    `json:"line"`
}

type dashboardResponse struct {
	KPIs       metrics.KPIs            `json:"kpis"`
	Monthly    []metrics.MonthlyPoint  `json:"monthly"`
	Categories []metrics.CategoryTotal `json:"categories"`
	Recent     []transactionResponse   `json:"recent"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Description:   t.Description,
		Category:      t.Category,
		Amount:        t.Amount,
		Date:          t.Date,
		Period:        t.Period(),
		PaymentMethod: t.PaymentMethod,
		Type:          t.Type,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toTransactionResponses(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, len(txs))
	for i, t := range txs {
		out[i] = toTransactionResponse(t)
	}
	return out
}

func (req createTransactionRequest) transaction(ownerID string) core.Transaction {
	return core.Transaction{
		OwnerID:       ownerID,
		Description:   req.Description,
		Category:      req.Category,
		Amount:        req.Amount,
		Date:          req.Date,
		PaymentMethod: req.PaymentMethod,
		Type:          req.Type,
	}
}

func (req updateTransactionRequest) patch() core.TransactionPatch {
	return core.TransactionPatch{
		Description:   req.Description,
		Category:      req.Category,
		Amount:        req.Amount,
		Date:          req.Date,
		PaymentMethod: req.PaymentMethod,
		Type:          req.Type,
	}
}

func toMonthViewResponse(v services.MonthView) monthViewResponse {
	return monthViewResponse{
		Period:       v.Period,
		Transactions: toTransactionResponses(v.Transactions),
		TotalIn:      v.TotalIn,
		TotalOut:     v.TotalOut,
		Balance:      v.Balance,
	}
}

func toRecurringResponse(r core.RecurringExpense) recurringResponse {
	return recurringResponse{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Amount:      r.Amount,
		Frequency:   r.Frequency,
		NextDueDate: r.NextDueDate,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRecurringView(v services.RecurringView) recurringResponse {
	resp := toRecurringResponse(v.RecurringExpense)
	days := v.DaysUntilDue
	resp.DaysUntilDue = &days
	resp.DueSoon = v.DueSoon
	return resp
}

func (req createRecurringRequest) recurring(ownerID string) core.RecurringExpense {
	return core.RecurringExpense{
		OwnerID:     ownerID,
		Name:        req.Name,
		Category:    req.Category,
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		NextDueDate: req.NextDueDate,
		Status:      req.Status,
	}
}

func toCardResponse(c core.CreditCard) cardResponse {
	return cardResponse{
		ID:             c.ID,
		Name:           c.Name,
		Brand:          c.Brand,
		LastDigits:     c.LastDigits,
		Limit:          c.Limit,
		Used:           c.Used,
		Available:      c.Available(),
		UsedPercentage: c.UsedPercentage(),
		HighUsage:      c.IsHighUsage(),
		CloseDay:       c.CloseDay,
		DueDay:         c.DueDay,
	}
}

func toCardListResponse(l services.CardList) cardListResponse {
	cards := make([]cardResponse, len(l.Cards))
	for i, c := range l.Cards {
		cards[i] = toCardResponse(c)
	}
	return cardListResponse{
		Cards: cards,
		Summary: cardSummaryBody{
			TotalLimit:     l.Summary.TotalLimit,
			TotalUsed:      l.Summary.TotalUsed,
			UsedPercentage: l.Summary.UsedPercentage,
		},
	}
}

// card builds a new card from the request. Absent fields stay zero and fail validation.
func (req cardRequest) card(ownerID string) core.CreditCard {
	c := core.CreditCard{OwnerID: ownerID}
	return req.patch().Apply(c)
}

func (req cardRequest) patch() services.CardPatch {
	return services.CardPatch{
		Name:       req.Name,
		Brand:      req.Brand,
		LastDigits: req.LastDigits,
		Limit:      req.Limit,
		Used:       req.Used,
		CloseDay:   req.CloseDay,
		DueDay:     req.DueDay,
	}
}

func toProfileResponse(p core.Profile) profileResponse {
	return profileResponse{UID: p.UID, Name: p.Name, Email: p.Email, Picture: p.Picture}
}

func toDashboardResponse(d metrics.Dashboard) dashboardResponse {
	return dashboardResponse{
		KPIs:       d.KPIs,
		Monthly:    d.Monthly,
		Categories: d.Categories,
		Recent:     toTransactionResponses(d.Recent),
	}
}
