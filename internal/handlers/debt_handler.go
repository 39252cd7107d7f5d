package handlers

import (
	"errors"
	"net/http"

	"go-pos-local/internal/database"
	"go-pos-local/internal/debts"

	"github.com/gin-gonic/gin"
)

// GetDebtors lists customers with an outstanding balance above zero.
func GetDebtors(c *gin.Context) {
	debtors, err := debts.OutstandingBalances(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balances"})
		return
	}
	c.JSON(http.StatusOK, debtors)
}

// GetDebtHistory returns one customer's merged debt/payment events,
// newest first.
func GetDebtHistory(c *gin.Context) {
	history, err := debts.History(database.DB, c.Param("customerId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

type PaymentRequest struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

func RecordDebtPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	payment, err := debts.RecordPayment(database.DB, c.Param("customerId"), req.Amount, req.Note)
	if err != nil {
		var amountErr *debts.InvalidAmountError
		if errors.As(err, &amountErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}
	c.JSON(http.StatusCreated, payment)
}
