package handlers

import (
	"net/http"
	"time"

	"go-pos-local/internal/database"
	"go-pos-local/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- GET: List all products ---
func GetProducts(c *gin.Context) {
	var products []models.Product

	result := database.DB.Preload("Conversions").Find(&products)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// --- GET: Lookup by barcode (scanner gun on the counter) ---
func ScanProduct(c *gin.Context) {
	barcode := c.Param("barcode")

	var product models.Product
	if err := database.DB.Preload("Conversions").
		First(&product, "barcode = ?", barcode).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No product with that barcode"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// --- POST: Add a new product ---
func AddProduct(c *gin.Context) {
	var newProduct models.Product

	if err := c.ShouldBindJSON(&newProduct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	newProduct.ID = uuid.NewString()
	newProduct.CreatedAt = time.Now().Format(time.RFC3339)
	for i := range newProduct.Conversions {
		newProduct.Conversions[i].ID = uuid.NewString()
		newProduct.Conversions[i].ProductID = newProduct.ID
	}

	if err := database.DB.Create(&newProduct).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, newProduct)
}

// --- PUT: Update a product ---
func UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var input models.Product
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product.Name = input.Name
	product.Category = input.Category
	product.Barcode = input.Barcode
	product.CostPrice = input.CostPrice
	product.SellPrice = input.SellPrice
	product.Stock = input.Stock
	product.Unit = input.Unit
	product.ImageURL = input.ImageURL

	err := database.RunTransaction(database.DB, func(tx *gorm.DB) error {
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		// The tier set is replaced wholesale on every edit.
		if err := tx.Where("product_id = ?", product.ID).
			Delete(&models.UnitConversion{}).Error; err != nil {
			return err
		}
		for i := range input.Conversions {
			conv := input.Conversions[i]
			conv.ID = uuid.NewString()
			conv.ProductID = product.ID
			if err := tx.Create(&conv).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// --- DELETE: Remove a product ---
// Hard delete, no cascade: old sale items keep their snapshotted
// product name and just lose the live link.
func DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	err := database.RunTransaction(database.DB, func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.UnitConversion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
