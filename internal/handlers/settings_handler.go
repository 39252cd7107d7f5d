package handlers

import (
	"net/http"

	"go-pos-local/internal/database"
	"go-pos-local/internal/models"

	"github.com/gin-gonic/gin"
)

func GetSettings(c *gin.Context) {
	settings, err := database.Get[models.Settings](database.DB, "config")
	if err != nil || settings == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func UpdateSettings(c *gin.Context) {
	var input models.Settings
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	input.ID = "config" // singleton
	if err := database.Put(database.DB, &input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, input)
}
