package debts

import (
	"errors"
	"path/filepath"
	"testing"

	"go-pos-local/internal/database"
	"go-pos-local/internal/models"

	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	if err := db.Create(&models.Customer{ID: id, Name: name}).Error; err != nil {
		t.Fatalf("seed customer error = %v", err)
	}
}

func addDebt(t *testing.T, db *gorm.DB, id, customerID string, amount float64, createdAt string) {
	t.Helper()
	debt := models.Debt{ID: id, CustomerID: customerID, SaleID: "sale-" + id, Amount: amount, CreatedAt: createdAt}
	if err := db.Create(&debt).Error; err != nil {
		t.Fatalf("seed debt error = %v", err)
	}
}

func balanceOf(debtors []DebtorBalance, customerID string) (float64, bool) {
	for _, d := range debtors {
		if d.Customer.ID == customerID {
			return d.TotalDebt, true
		}
	}
	return 0, false
}

func TestOutstandingBalances(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "c-1", "Bu Siti")
	seedCustomer(t, db, "c-2", "Pak Budi")
	seedCustomer(t, db, "c-3", "Mbak Rina") // no ledger rows at all

	addDebt(t, db, "d-1", "c-1", 15000, "2026-01-02T10:00:00Z")
	if _, err := RecordPayment(db, "c-1", 5000, "cicilan pertama"); err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}
	addDebt(t, db, "d-2", "c-2", 8000, "2026-01-03T10:00:00Z")

	debtors, err := OutstandingBalances(db)
	if err != nil {
		t.Fatalf("OutstandingBalances() error = %v", err)
	}

	if got, ok := balanceOf(debtors, "c-1"); !ok || got != 10000 {
		t.Errorf("c-1 balance = %g (present=%v), want 10000", got, ok)
	}
	if got, ok := balanceOf(debtors, "c-2"); !ok || got != 8000 {
		t.Errorf("c-2 balance = %g (present=%v), want 8000", got, ok)
	}
	if _, ok := balanceOf(debtors, "c-3"); ok {
		t.Error("c-3 has no ledger rows and must be absent, not zero-valued")
	}
}

func TestSettledCustomerDropsOffTheList(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "c-1", "Bu Siti")
	addDebt(t, db, "d-1", "c-1", 15000, "2026-01-02T10:00:00Z")

	if _, err := RecordPayment(db, "c-1", 5000, ""); err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}
	debtors, err := OutstandingBalances(db)
	if err != nil {
		t.Fatalf("OutstandingBalances() error = %v", err)
	}
	if got, ok := balanceOf(debtors, "c-1"); !ok || got != 10000 {
		t.Fatalf("after partial payment balance = %g (present=%v), want 10000", got, ok)
	}

	if _, err := RecordPayment(db, "c-1", 10000, "pelunasan"); err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}
	debtors, err = OutstandingBalances(db)
	if err != nil {
		t.Fatalf("OutstandingBalances() error = %v", err)
	}
	if _, ok := balanceOf(debtors, "c-1"); ok {
		t.Error("fully paid customer still listed as debtor")
	}
}

func TestOverpaymentCarriesForwardAsCredit(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "c-1", "Bu Siti")
	addDebt(t, db, "d-1", "c-1", 5000, "2026-01-02T10:00:00Z")

	// Paying more than owed is allowed; the negative balance is just
	// filtered out of the debtor list.
	if _, err := RecordPayment(db, "c-1", 8000, ""); err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}
	debtors, err := OutstandingBalances(db)
	if err != nil {
		t.Fatalf("OutstandingBalances() error = %v", err)
	}
	if _, ok := balanceOf(debtors, "c-1"); ok {
		t.Error("overpaid customer must be absent from the debtor list")
	}

	// A new debt nets against the carried credit.
	addDebt(t, db, "d-2", "c-1", 10000, "2026-01-05T10:00:00Z")
	debtors, err = OutstandingBalances(db)
	if err != nil {
		t.Fatalf("OutstandingBalances() error = %v", err)
	}
	if got, ok := balanceOf(debtors, "c-1"); !ok || got != 7000 {
		t.Errorf("balance after credit carryforward = %g (present=%v), want 7000", got, ok)
	}
}

func TestRecordPaymentRejectsNonPositiveAmounts(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "c-1", "Bu Siti")

	for _, amount := range []float64{0, -100} {
		_, err := RecordPayment(db, "c-1", amount, "")
		var amountErr *InvalidAmountError
		if !errors.As(err, &amountErr) {
			t.Errorf("RecordPayment(%g) error = %v, want InvalidAmountError", amount, err)
		}
	}

	rows, _ := database.GetAll[models.DebtPayment](db)
	if len(rows) != 0 {
		t.Errorf("rejected payments left %d rows", len(rows))
	}
}

func TestHistoryMergesAndOrdersDescending(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "c-1", "Bu Siti")

	addDebt(t, db, "d-1", "c-1", 15000, "2026-01-02T10:00:00Z")
	payment := models.DebtPayment{
		ID: "pay-1", CustomerID: "c-1", Amount: 5000,
		DateTime: "2026-01-04T09:00:00Z", Note: "cicilan",
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("seed payment error = %v", err)
	}
	addDebt(t, db, "d-2", "c-1", 7000, "2026-01-06T15:00:00Z")

	// Another customer's events must not leak in.
	seedCustomer(t, db, "c-2", "Pak Budi")
	addDebt(t, db, "d-3", "c-2", 999, "2026-01-03T10:00:00Z")

	history, err := History(db, "c-1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("History() returned %d events, want 3", len(history))
	}

	wantTypes := []string{"debt", "payment", "debt"}
	wantAmounts := []float64{7000, 5000, 15000}
	for i := range history {
		if history[i].Type != wantTypes[i] || history[i].Amount != wantAmounts[i] {
			t.Errorf("event %d = %s/%g, want %s/%g",
				i, history[i].Type, history[i].Amount, wantTypes[i], wantAmounts[i])
		}
	}
	if history[0].SaleID != "sale-d-2" {
		t.Errorf("debt event saleId = %q, want sale-d-2", history[0].SaleID)
	}
	if history[1].Note != "cicilan" {
		t.Errorf("payment event note = %q, want the counter note", history[1].Note)
	}
}
