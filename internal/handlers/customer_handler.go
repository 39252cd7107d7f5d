package handlers

import (
	"net/http"
	"time"

	"go-pos-local/internal/database"
	"go-pos-local/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GetCustomers(c *gin.Context) {
	customers, err := database.GetAll[models.Customer](database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

func AddCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil || customer.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer name is required"})
		return
	}

	customer.ID = uuid.NewString()
	customer.CreatedAt = time.Now().Format(time.RFC3339)
	if err := database.Add(database.DB, &customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func UpdateCustomer(c *gin.Context) {
	id := c.Param("id")

	existing, err := database.Get[models.Customer](database.DB, id)
	if err != nil || existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var input models.Customer
	if err := c.ShouldBindJSON(&input); err != nil || input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer name is required"})
		return
	}

	existing.Name = input.Name
	existing.ContactName = input.ContactName
	existing.Phone = input.Phone
	existing.Address = input.Address
	if err := database.Put(database.DB, existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DeleteCustomer hard-deletes. Sales and debts that reference the
// customer stay put as orphaned history.
func DeleteCustomer(c *gin.Context) {
	id := c.Param("id")
	if err := database.Delete[models.Customer](database.DB, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
