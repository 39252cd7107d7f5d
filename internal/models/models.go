package models

// User - The person operating the terminal
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string `json:"-"`    // Never return this in JSON
	Role         string `json:"role"` // 'admin', 'cashier'
	CreatedAt    string `json:"createdAt"`
}

// Product - The Inventory
// Stock is always counted in the base unit; packaging tiers
// (conversions) only exist at sell time.
type Product struct {
	ID          string           `gorm:"primaryKey" json:"id"`
	Name        string           `json:"name"`
	Category    string           `gorm:"index" json:"category"`
	Barcode     string           `gorm:"index" json:"barcode"`
	CostPrice   float64          `json:"costPrice"` // cost per base unit
	SellPrice   float64          `json:"sellPrice"` // price per base unit
	Stock       float64          `json:"stock"`     // in base units
	Unit        string           `json:"unit"`      // base unit label, e.g. "pcs"
	Conversions []UnitConversion `gorm:"foreignKey:ProductID" json:"conversions"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	CreatedAt   string           `json:"createdAt"`
}

// UnitConversion - A named packaging tier of a product
type UnitConversion struct {
	ID               string  `gorm:"primaryKey" json:"id"`
	ProductID        string  `gorm:"index" json:"productId"`
	UnitName         string  `json:"unitName"`         // e.g. "pack"
	ConversionFactor float64 `json:"conversionFactor"` // base units per tier unit
	SellPrice        float64 `json:"sellPrice"`        // price per tier unit
}

// Customer - Referenced weakly by sales and debts; deleting a
// customer leaves its ledger rows orphaned on purpose.
type Customer struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contactName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// Sale - The Transaction Header. Immutable once written.
type Sale struct {
	ID            string  `gorm:"primaryKey" json:"id"`
	DateTime      string  `gorm:"index" json:"dateTime"` // ISO timestamp, sole ordering key
	CustomerID    string  `gorm:"index" json:"customerId,omitempty"`
	CashierUserID string  `json:"cashierUserId"`
	TotalAmount   float64 `json:"totalAmount"`
	PaymentType   string  `json:"paymentType"` // 'cash' or 'debt'
	PaidAmount    float64 `json:"paidAmount"`
	ChangeAmount  float64 `json:"changeAmount"`
	Note          string  `json:"note,omitempty"`
}

// SaleItem - One cart line, with everything snapshotted at sale time
// so later product renames or price changes never rewrite history.
type SaleItem struct {
	ID               string  `gorm:"primaryKey" json:"id"`
	SaleID           string  `gorm:"index" json:"saleId"`
	ProductID        string  `gorm:"index" json:"productId"`
	ProductName      string  `json:"productName"`
	Quantity         float64 `json:"quantity"` // in the chosen tier unit
	UnitName         string  `json:"unitName"`
	ConversionFactor float64 `json:"conversionFactor"`
	UnitPrice        float64 `json:"unitPrice"`  // tier price
	TotalPrice       float64 `json:"totalPrice"` // unitPrice * quantity
	CostPrice        float64 `json:"costPrice"`  // base cost scaled to the tier
}

// Debt - Created only as a byproduct of a debt-type sale
type Debt struct {
	ID         string  `gorm:"primaryKey" json:"id"`
	CustomerID string  `gorm:"index" json:"customerId"`
	SaleID     string  `gorm:"index" json:"saleId"`
	Amount     float64 `json:"amount"`
	CreatedAt  string  `json:"createdAt"`
}

// DebtPayment - Append-only; balances are derived, never stored
type DebtPayment struct {
	ID         string  `gorm:"primaryKey" json:"id"`
	CustomerID string  `gorm:"index" json:"customerId"`
	Amount     float64 `json:"amount"`
	DateTime   string  `json:"dateTime"`
	Note       string  `json:"note,omitempty"`
}

// Settings - Singleton store profile for receipts
type Settings struct {
	ID                string `gorm:"primaryKey" json:"-"` // always "config"
	StoreName         string `json:"storeName"`
	StoreAddress      string `json:"storeAddress"`
	StorePhone        string `json:"storePhone,omitempty"`
	ReceiptFooterNote string `json:"receiptFooterNote,omitempty"`
}
