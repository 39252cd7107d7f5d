// Package sales turns a checkout cart into one atomic set of ledger
// writes: the sale header, its line items, the base-unit stock
// decrements and, for a debt sale, the debt record. Either all of it
// lands or none of it does.
package sales

import (
	"errors"
	"fmt"
	"time"

	"go-pos-local/internal/database"
	"go-pos-local/internal/models"
	"go-pos-local/internal/units"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentCash = "cash"
	PaymentDebt = "debt"
)

// CartLine names a product, the chosen packaging tier and how many of
// that tier the customer is buying.
type CartLine struct {
	ProductID string  `json:"productId"`
	UnitName  string  `json:"unitName"`
	Quantity  float64 `json:"quantity"`
}

// Request is one checkout attempt.
type Request struct {
	Lines         []CartLine `json:"lines"`
	PaymentType   string     `json:"paymentType"`
	PaidAmount    float64    `json:"paidAmount"` // tendered cash, ignored for debt
	CustomerID    string     `json:"customerId"` // required for debt
	CashierUserID string     `json:"-"`
	Note          string     `json:"note"`
}

// Result is the persisted sale, returned for receipt rendering.
type Result struct {
	Sale  models.Sale       `json:"sale"`
	Items []models.SaleItem `json:"items"`
}

// InsufficientStockError names the product that cannot cover a cart
// line and how much stock (in base units) is actually left.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   float64 // base units
	Available   float64 // base units
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %g, available %g",
		e.ProductName, e.Requested, e.Available)
}

// InvalidPaymentError covers cash short of the subtotal and a debt
// sale without a customer.
type InvalidPaymentError struct {
	Reason string
}

func (e *InvalidPaymentError) Error() string { return "invalid payment: " + e.Reason }

// CommitFailedError wraps an internal store failure during commit. The
// transaction has already been rolled back; the caller decides whether
// to prompt a retry.
type CommitFailedError struct {
	Err error
}

func (e *CommitFailedError) Error() string { return "sale commit failed: " + e.Err.Error() }
func (e *CommitFailedError) Unwrap() error { return e.Err }

// ErrEmptyCart rejects a checkout with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// Commit validates the cart, then applies it inside one store
// transaction. Validation is fail-fast: nothing is written until every
// precondition holds. Stock is checked twice - once up front for a
// clean error before the transaction starts, and again per line inside
// the transaction against the row as it is then, so two lines selling
// the same product at different tiers can never drive stock negative.
func Commit(db *gorm.DB, req Request) (*Result, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if req.PaymentType != PaymentCash && req.PaymentType != PaymentDebt {
		return nil, &InvalidPaymentError{Reason: "unknown payment type " + req.PaymentType}
	}
	if req.PaymentType == PaymentDebt && req.CustomerID == "" {
		return nil, &InvalidPaymentError{Reason: "debt sale requires a customer"}
	}

	// Resolve tiers and price the cart before touching anything.
	type pricedLine struct {
		line    CartLine
		product models.Product
		tier    units.Tier
	}
	priced := make([]pricedLine, 0, len(req.Lines))
	var subtotal float64
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %g for product %s", line.Quantity, line.ProductID)
		}
		var product models.Product
		err := db.Preload("Conversions").First(&product, "id = ?", line.ProductID).Error
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", line.ProductID, err)
		}
		tier, err := units.ResolveTier(&product, line.UnitName)
		if err != nil {
			return nil, err
		}
		if !units.CanFulfill(&product, tier, line.Quantity) {
			return nil, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   line.Quantity * tier.Factor,
				Available:   product.Stock,
			}
		}
		priced = append(priced, pricedLine{line: line, product: product, tier: tier})
		subtotal += tier.Price * line.Quantity
	}

	if req.PaymentType == PaymentCash && req.PaidAmount < subtotal {
		return nil, &InvalidPaymentError{
			Reason: fmt.Sprintf("cash %g is short of subtotal %g", req.PaidAmount, subtotal),
		}
	}

	saleID := uuid.NewString()
	timestamp := time.Now().Format(time.RFC3339)

	sale := models.Sale{
		ID:            saleID,
		DateTime:      timestamp,
		CustomerID:    req.CustomerID,
		CashierUserID: req.CashierUserID,
		TotalAmount:   subtotal,
		PaymentType:   req.PaymentType,
		Note:          req.Note,
	}
	if req.PaymentType == PaymentCash {
		sale.PaidAmount = req.PaidAmount
		sale.ChangeAmount = req.PaidAmount - subtotal
	}

	items := make([]models.SaleItem, 0, len(priced))
	for _, pl := range priced {
		items = append(items, models.SaleItem{
			ID:               uuid.NewString(),
			SaleID:           saleID,
			ProductID:        pl.product.ID,
			ProductName:      pl.product.Name,
			Quantity:         pl.line.Quantity,
			UnitName:         pl.tier.UnitName,
			ConversionFactor: pl.tier.Factor,
			UnitPrice:        pl.tier.Price,
			TotalPrice:       pl.tier.Price * pl.line.Quantity,
			// Base-unit cost scaled to the tier, so profit math later
			// is tier price minus tier cost per sold unit.
			CostPrice: pl.product.CostPrice * pl.tier.Factor,
		})
	}

	var stockErr *InsufficientStockError
	err := database.RunTransaction(db, func(tx *gorm.DB) error {
		if err := database.Add(tx, &sale); err != nil {
			return err
		}
		for i := range items {
			if err := database.Add(tx, &items[i]); err != nil {
				return err
			}
			// Re-read inside the transaction: a previous line of the
			// same product has already shrunk this row.
			var product models.Product
			if err := tx.First(&product, "id = ?", items[i].ProductID).Error; err != nil {
				return err
			}
			deduct := items[i].Quantity * items[i].ConversionFactor
			if product.Stock < deduct {
				stockErr = &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   deduct,
					Available:   product.Stock,
				}
				return stockErr
			}
			product.Stock -= deduct
			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
				Update("stock", product.Stock).Error; err != nil {
				return err
			}
		}
		if req.PaymentType == PaymentDebt {
			debt := models.Debt{
				ID:         uuid.NewString(),
				CustomerID: req.CustomerID,
				SaleID:     saleID,
				Amount:     subtotal,
				CreatedAt:  timestamp,
			}
			if err := database.Add(tx, &debt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if stockErr != nil {
			return nil, stockErr
		}
		return nil, &CommitFailedError{Err: err}
	}

	return &Result{Sale: sale, Items: items}, nil
}
