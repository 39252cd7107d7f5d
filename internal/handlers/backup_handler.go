package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"go-pos-local/internal/backup"
	"go-pos-local/internal/database"

	"github.com/gin-gonic/gin"
)

// ExportBackup streams the whole store as one JSON snapshot.
func ExportBackup(c *gin.Context) {
	snap, err := backup.Export(database.DB, time.Now().Format(time.RFC3339))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export backup"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="localpos-backup.json"`)
	c.JSON(http.StatusOK, snap)
}

// RestoreBackup validates the uploaded snapshot, then replaces every
// collection with its contents in one transaction.
func RestoreBackup(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	snap, err := backup.Parse(raw)
	if err != nil {
		var formatErr *backup.InvalidBackupFormatError
		if errors.As(err, &formatErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backup"})
		return
	}

	if err := backup.Restore(database.DB, snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Restore failed, nothing was changed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Backup restored"})
}
