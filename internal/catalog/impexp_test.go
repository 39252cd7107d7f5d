package catalog

import (
	"bytes"
	"path/filepath"
	"testing"

	"go-pos-local/internal/database"
	"go-pos-local/internal/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

// buildWorkbook writes a catalog sheet with a header row and the given
// data rows.
func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for col, title := range header {
		axis, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue("Sheet1", axis, title)
	}
	for i, row := range rows {
		for col, v := range row {
			axis, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue("Sheet1", axis, v)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("workbook write error = %v", err)
	}
	return &buf
}

func TestImportInsertsAndSkips(t *testing.T) {
	db := testDB(t)

	buf := buildWorkbook(t, [][]any{
		{"899001", "Rokok Surya", "Rokok", "pcs", 20, 600, 1000, "pack:10:9000;Case:200:170000"},
		{"", "Tanpa Barcode", "Rokok", "pcs", 5, 100, 200, ""},          // skipped: no barcode
		{"899002", "", "Rokok", "pcs", 5, 100, 200, ""},                 // skipped: no name
		{"899003", "Gula 1kg", "", "", "", "", "", ""},                  // defaults kick in
	})

	summary, err := Import(db, buf)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if summary.Inserted != 2 || summary.Updated != 0 || summary.Skipped != 2 {
		t.Errorf("summary = %+v, want 2 inserted / 0 updated / 2 skipped", summary)
	}

	var surya models.Product
	if err := db.Preload("Conversions").First(&surya, "barcode = ?", "899001").Error; err != nil {
		t.Fatalf("imported product missing: %v", err)
	}
	if surya.Stock != 20 || surya.CostPrice != 600 || surya.SellPrice != 1000 {
		t.Errorf("numbers = %g/%g/%g, want 20/600/1000", surya.Stock, surya.CostPrice, surya.SellPrice)
	}
	if len(surya.Conversions) != 2 {
		t.Fatalf("conversions = %d, want 2", len(surya.Conversions))
	}
	if surya.Conversions[0].UnitName != "pack" || surya.Conversions[0].ConversionFactor != 10 ||
		surya.Conversions[0].SellPrice != 9000 {
		t.Errorf("first conversion = %+v, want pack/10/9000", surya.Conversions[0])
	}

	var gula models.Product
	if err := db.First(&gula, "barcode = ?", "899003").Error; err != nil {
		t.Fatalf("defaulted product missing: %v", err)
	}
	if gula.Category != defaultCategory {
		t.Errorf("category = %q, want default %q", gula.Category, defaultCategory)
	}
	if gula.Stock != 0 || gula.CostPrice != 0 || gula.SellPrice != 0 {
		t.Errorf("blank numerics = %g/%g/%g, want zeros", gula.Stock, gula.CostPrice, gula.SellPrice)
	}
}

func TestImportUpdatesByBarcode(t *testing.T) {
	db := testDB(t)

	existing := models.Product{
		ID: "p-1", Name: "Rokok Surya", Barcode: "899001", Category: "Rokok",
		Unit: "pcs", Stock: 20, CostPrice: 600, SellPrice: 1000,
		Conversions: []models.UnitConversion{
			{ID: "uc-1", ProductID: "p-1", UnitName: "pack", ConversionFactor: 10, SellPrice: 9000},
		},
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("seed error = %v", err)
	}

	buf := buildWorkbook(t, [][]any{
		{"899001", "Rokok Surya 16", "Rokok", "pcs", 50, 650, 1100, "slop:16:16000"},
	})
	summary, err := Import(db, buf)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if summary.Updated != 1 || summary.Inserted != 0 {
		t.Errorf("summary = %+v, want 1 updated / 0 inserted", summary)
	}

	var got models.Product
	if err := db.Preload("Conversions").First(&got, "barcode = ?", "899001").Error; err != nil {
		t.Fatalf("product missing: %v", err)
	}
	if got.ID != "p-1" {
		t.Errorf("id = %q, want original p-1 (sale history must stay linked)", got.ID)
	}
	if got.Name != "Rokok Surya 16" || got.Stock != 50 {
		t.Errorf("name/stock = %q/%g, want updated values", got.Name, got.Stock)
	}
	if len(got.Conversions) != 1 || got.Conversions[0].UnitName != "slop" {
		t.Errorf("conversions = %+v, want the replaced slop tier", got.Conversions)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	db := testDB(t)
	product := models.Product{
		ID: "p-1", Name: "Rokok Surya", Barcode: "899001", Category: "Rokok",
		Unit: "pcs", Stock: 20, CostPrice: 600, SellPrice: 1000,
		Conversions: []models.UnitConversion{
			{ID: "uc-1", ProductID: "p-1", UnitName: "pack", ConversionFactor: 10, SellPrice: 9000},
		},
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed error = %v", err)
	}

	var buf bytes.Buffer
	if err := Export(db, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// Importing the export into a fresh store reproduces the catalog.
	other := testDB(t)
	summary, err := Import(other, &buf)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if summary.Inserted != 1 {
		t.Errorf("summary = %+v, want 1 inserted", summary)
	}

	var got models.Product
	if err := other.Preload("Conversions").First(&got, "barcode = ?", "899001").Error; err != nil {
		t.Fatalf("round-tripped product missing: %v", err)
	}
	if got.Name != product.Name || got.Stock != product.Stock ||
		got.CostPrice != product.CostPrice || got.SellPrice != product.SellPrice {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if len(got.Conversions) != 1 || got.Conversions[0].ConversionFactor != 10 ||
		got.Conversions[0].SellPrice != 9000 {
		t.Errorf("round trip lost conversions: %+v", got.Conversions)
	}
}

func TestConversionsGrammar(t *testing.T) {
	tests := []struct {
		name   string
		packed string
		want   int
	}{
		{name: "two tiers", packed: "Case:10:28000;Carton:40:105000", want: 2},
		{name: "empty", packed: "", want: 0},
		{name: "trailing separator", packed: "Case:10:28000;", want: 1},
		{name: "malformed segment dropped", packed: "Case:10:28000;junk", want: 1},
		{name: "zero factor dropped", packed: "Case:0:28000", want: 0},
		{name: "negative factor dropped", packed: "Case:-5:28000", want: 0},
		{name: "whitespace tolerated", packed: " Case : 10 : 28000 ", want: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseConversions(tc.packed)
			if len(got) != tc.want {
				t.Errorf("parseConversions(%q) = %d tiers, want %d", tc.packed, len(got), tc.want)
			}
		})
	}
}

func TestFormatParseConversionsRoundTrip(t *testing.T) {
	original := []models.UnitConversion{
		{UnitName: "pack", ConversionFactor: 10, SellPrice: 9000},
		{UnitName: "Carton", ConversionFactor: 40, SellPrice: 105000},
	}
	packed := formatConversions(original)
	if packed != "pack:10:9000;Carton:40:105000" {
		t.Errorf("formatConversions() = %q", packed)
	}

	parsed := parseConversions(packed)
	if len(parsed) != len(original) {
		t.Fatalf("round trip count = %d, want %d", len(parsed), len(original))
	}
	for i := range parsed {
		if parsed[i].UnitName != original[i].UnitName ||
			parsed[i].ConversionFactor != original[i].ConversionFactor ||
			parsed[i].SellPrice != original[i].SellPrice {
			t.Errorf("tier %d = %+v, want %+v", i, parsed[i], original[i])
		}
	}
}
