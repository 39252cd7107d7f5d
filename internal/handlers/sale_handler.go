package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go-pos-local/internal/database"
	"go-pos-local/internal/models"
	"go-pos-local/internal/sales"
	"go-pos-local/internal/units"

	"github.com/gin-gonic/gin"
)

// Checkout commits the cart. All validation failures come back before
// anything is written; a commit failure has already rolled back.
func Checkout(c *gin.Context) {
	var req sales.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	req.CashierUserID = c.MustGet("userID").(string)

	result, err := sales.Commit(database.DB, req)
	if err != nil {
		var stockErr *sales.InsufficientStockError
		var payErr *sales.InvalidPaymentError
		var unitErr *units.UnknownUnitError
		var commitErr *sales.CommitFailedError
		switch {
		case errors.Is(err, sales.ErrEmptyCart),
			errors.As(err, &payErr),
			errors.As(err, &unitErr),
			errors.As(err, &stockErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &commitErr):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// SaleWithItems is one past transaction plus its lines, for receipt
// re-display in the history screen.
type SaleWithItems struct {
	models.Sale
	Items []models.SaleItem `json:"items"`
}

// GetSales lists recent sales, newest first. ?limit= caps the count
// (default 50).
func GetSales(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	var saleRows []models.Sale
	if err := database.DB.Order("date_time desc").Limit(limit).Find(&saleRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}

	result := make([]SaleWithItems, 0, len(saleRows))
	for _, sale := range saleRows {
		items, err := database.GetAllByIndex[models.SaleItem](database.DB, "sale_id", sale.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sale items"})
			return
		}
		result = append(result, SaleWithItems{Sale: sale, Items: items})
	}

	c.JSON(http.StatusOK, result)
}
