package handlers

import (
	"bytes"
	"net/http"
	"time"

	"go-pos-local/internal/catalog"
	"go-pos-local/internal/database"

	"github.com/gin-gonic/gin"
)

// ImportCatalog takes an uploaded xlsx (form field "file") and upserts
// products by barcode.
func ImportCatalog(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	summary, err := catalog.Import(database.DB, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Import failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportCatalog downloads the whole catalog as an xlsx workbook.
func ExportCatalog(c *gin.Context) {
	var buf bytes.Buffer
	if err := catalog.Export(database.DB, &buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}

	filename := "Stok_LocalPOS_" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
