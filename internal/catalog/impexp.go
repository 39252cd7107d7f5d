// Package catalog moves the product catalog in and out of xlsx
// workbooks, one row per product. Packaging tiers ride along in a
// packed "UnitName:Factor:Price" column so a whole multi-tier catalog
// survives a round trip through a spreadsheet.
package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go-pos-local/internal/database"
	"go-pos-local/internal/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Column layout shared by import and export.
var header = []string{"Barcode", "Product Name", "Category", "Unit", "Stock", "Cost", "Sell", "Conversions"}

const defaultCategory = "Umum"

// ImportSummary reports what one import run did.
type ImportSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// Import reads the first sheet of an xlsx workbook and upserts
// products by barcode: a known barcode updates the existing product in
// place (keeping its id, so sale history stays linked), a new barcode
// inserts. Rows missing barcode or name are skipped. The whole run is
// one transaction.
func Import(db *gorm.DB, r io.Reader) (*ImportSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	err = database.RunTransaction(db, func(tx *gorm.DB) error {
		for i, row := range rows {
			if i == 0 && isHeaderRow(row) {
				continue
			}
			barcode := cell(row, 0)
			name := cell(row, 1)
			if barcode == "" || name == "" {
				summary.Skipped++
				continue
			}

			category := cell(row, 2)
			if category == "" {
				category = defaultCategory
			}
			unit := cell(row, 3)
			if unit == "" {
				unit = "pcs"
			}
			conversions := parseConversions(cell(row, 7))

			var existing models.Product
			found := tx.First(&existing, "barcode = ?", barcode).Error == nil
			if found {
				existing.Name = name
				existing.Category = category
				existing.Unit = unit
				existing.Stock = number(row, 4)
				existing.CostPrice = number(row, 5)
				existing.SellPrice = number(row, 6)
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				// Replace the tier set wholesale.
				if err := tx.Where("product_id = ?", existing.ID).
					Delete(&models.UnitConversion{}).Error; err != nil {
					return err
				}
				for j := range conversions {
					conversions[j].ProductID = existing.ID
					if err := tx.Create(&conversions[j]).Error; err != nil {
						return err
					}
				}
				summary.Updated++
				continue
			}

			product := models.Product{
				ID:          uuid.NewString(),
				Name:        name,
				Category:    category,
				Barcode:     barcode,
				Unit:        unit,
				Stock:       number(row, 4),
				CostPrice:   number(row, 5),
				SellPrice:   number(row, 6),
				Conversions: conversions,
				CreatedAt:   time.Now().Format(time.RFC3339),
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			summary.Inserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Export writes the whole catalog as an xlsx workbook, the inverse of
// Import.
func Export(db *gorm.DB, w io.Writer) error {
	var products []models.Product
	if err := db.Preload("Conversions").Find(&products).Error; err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Produk"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range header {
		axis, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, axis, title)
	}
	for i, p := range products {
		values := []any{
			p.Barcode, p.Name, p.Category, p.Unit,
			p.Stock, p.CostPrice, p.SellPrice,
			formatConversions(p.Conversions),
		}
		for col, v := range values {
			axis, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, axis, v)
		}
	}
	return f.Write(w)
}

// parseConversions decodes the packed grammar
// "UnitName:Factor:Price;UnitName:Factor:Price". Malformed segments
// and non-positive factors are dropped; the catalog row itself still
// imports.
func parseConversions(packed string) []models.UnitConversion {
	packed = strings.TrimSpace(packed)
	if packed == "" {
		return nil
	}
	var conversions []models.UnitConversion
	for _, segment := range strings.Split(packed, ";") {
		parts := strings.Split(strings.TrimSpace(segment), ":")
		if len(parts) != 3 || parts[0] == "" {
			continue
		}
		factor, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || factor <= 0 {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			continue
		}
		conversions = append(conversions, models.UnitConversion{
			ID:               uuid.NewString(),
			UnitName:         strings.TrimSpace(parts[0]),
			ConversionFactor: factor,
			SellPrice:        price,
		})
	}
	return conversions
}

func formatConversions(conversions []models.UnitConversion) string {
	segments := make([]string, 0, len(conversions))
	for _, c := range conversions {
		segments = append(segments, fmt.Sprintf("%s:%s:%s",
			c.UnitName,
			strconv.FormatFloat(c.ConversionFactor, 'f', -1, 64),
			strconv.FormatFloat(c.SellPrice, 'f', -1, 64)))
	}
	return strings.Join(segments, ";")
}

func isHeaderRow(row []string) bool {
	for _, c := range row {
		if strings.EqualFold(strings.TrimSpace(c), "barcode") {
			return true
		}
	}
	return false
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func number(row []string, i int) float64 {
	v, err := strconv.ParseFloat(cell(row, i), 64)
	if err != nil {
		return 0
	}
	return v
}
