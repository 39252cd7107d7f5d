// Package debts answers "who owes how much" by aggregating the
// append-only debt and payment events. No balance is ever stored, so
// the figure cannot drift from the ledger it is derived from.
package debts

import (
	"fmt"
	"sort"
	"time"

	"go-pos-local/internal/database"
	"go-pos-local/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DebtorBalance is one customer's derived outstanding amount.
type DebtorBalance struct {
	Customer  models.Customer `json:"customer"`
	TotalDebt float64         `json:"totalDebt"`
}

// Event is one row of a customer's merged debt history. Debt events
// carry the originating sale id, payment events carry the free-text
// note taken at the counter.
type Event struct {
	Date   string  `json:"date"`
	Type   string  `json:"type"` // "debt" or "payment"
	Amount float64 `json:"amount"`
	SaleID string  `json:"saleId,omitempty"`
	Note   string  `json:"note,omitempty"`
}

// InvalidAmountError rejects a non-positive payment.
type InvalidAmountError struct {
	Amount float64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("payment amount must be positive, got %g", e.Amount)
}

// OutstandingBalances lists every customer whose derived balance
// (sum of debts minus sum of payments) is above zero. A customer with
// no ledger rows, a settled balance or an overpaid (negative) balance
// is simply absent from the result.
func OutstandingBalances(db *gorm.DB) ([]DebtorBalance, error) {
	customers, err := database.GetAll[models.Customer](db)
	if err != nil {
		return nil, err
	}
	allDebts, err := database.GetAll[models.Debt](db)
	if err != nil {
		return nil, err
	}
	allPayments, err := database.GetAll[models.DebtPayment](db)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, d := range allDebts {
		totals[d.CustomerID] += d.Amount
	}
	for _, p := range allPayments {
		totals[p.CustomerID] -= p.Amount
	}

	var debtors []DebtorBalance
	for _, c := range customers {
		if balance := totals[c.ID]; balance > 0 {
			debtors = append(debtors, DebtorBalance{Customer: c, TotalDebt: balance})
		}
	}
	sort.Slice(debtors, func(i, j int) bool {
		return debtors[i].TotalDebt > debtors[j].TotalDebt
	})
	return debtors, nil
}

// History merges a customer's debt and payment events into one
// sequence, newest first.
func History(db *gorm.DB, customerID string) ([]Event, error) {
	customerDebts, err := database.GetAllByIndex[models.Debt](db, "customer_id", customerID)
	if err != nil {
		return nil, err
	}
	customerPayments, err := database.GetAllByIndex[models.DebtPayment](db, "customer_id", customerID)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(customerDebts)+len(customerPayments))
	for _, d := range customerDebts {
		events = append(events, Event{Date: d.CreatedAt, Type: "debt", Amount: d.Amount, SaleID: d.SaleID})
	}
	for _, p := range customerPayments {
		events = append(events, Event{Date: p.DateTime, Type: "payment", Amount: p.Amount, Note: p.Note})
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Date > events[j].Date
	})
	return events, nil
}

// RecordPayment appends one payment event. The amount is not capped at
// the current balance: overpayment carries forward as credit and the
// customer drops off the debtor list.
func RecordPayment(db *gorm.DB, customerID string, amount float64, note string) (*models.DebtPayment, error) {
	if amount <= 0 {
		return nil, &InvalidAmountError{Amount: amount}
	}
	payment := models.DebtPayment{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Amount:     amount,
		DateTime:   time.Now().Format(time.RFC3339),
		Note:       note,
	}
	if err := database.Add(db, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
