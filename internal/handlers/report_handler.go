package handlers

import (
	"net/http"

	"go-pos-local/internal/database"
	"go-pos-local/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReportData defines the shape of the analytics response
type ReportData struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalOrders  int64   `json:"total_orders"`
	TotalProfit  float64 `json:"total_profit"`
	TopSelling   []struct {
		ProductName string  `json:"product_name"`
		Sold        float64 `json:"sold"`
		Revenue     float64 `json:"revenue"`
	} `json:"top_selling"`
	RecentSales []models.Sale `json:"recent_sales"`
}

// --- GET: /api/reports ---
// Optional ?from= / ?to= bound the range on the sale timestamp
// (RFC3339 strings compare correctly as text).
func GetSalesReport(c *gin.Context) {
	var data ReportData
	from := c.Query("from")
	to := c.Query("to")

	salesInRange := func() *gorm.DB {
		q := database.DB.Model(&models.Sale{})
		if from != "" {
			q = q.Where("date_time >= ?", from)
		}
		if to != "" {
			q = q.Where("date_time <= ?", to)
		}
		return q
	}
	itemsInRange := func() *gorm.DB {
		q := database.DB.Table("sale_items").
			Joins("JOIN sales ON sale_items.sale_id = sales.id")
		if from != "" {
			q = q.Where("sales.date_time >= ?", from)
		}
		if to != "" {
			q = q.Where("sales.date_time <= ?", to)
		}
		return q
	}

	// 1. Total Revenue
	err := salesInRange().
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.TotalRevenue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	// 2. Count Orders
	if err := salesInRange().Count(&data.TotalOrders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}

	// 3. Profit from the per-line snapshots: tier price minus tier
	// cost, both frozen at sale time, so later price edits never
	// rewrite past profit.
	err = itemsInRange().
		Select("COALESCE(SUM(sale_items.total_price - sale_items.cost_price * sale_items.quantity), 0)").
		Scan(&data.TotalProfit).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate profit"})
		return
	}

	// 4. Top 5 Best Sellers, counted in base units sold
	err = itemsInRange().
		Select("sale_items.product_name as product_name, SUM(sale_items.quantity * sale_items.conversion_factor) as sold, SUM(sale_items.total_price) as revenue").
		Group("sale_items.product_name").
		Order("sold desc").
		Limit(5).
		Scan(&data.TopSelling).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	// 5. Last 10 transactions, newest first
	err = database.DB.Order("date_time desc").Limit(10).Find(&data.RecentSales).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent sales"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// ValuationItem is a single inventory row valued at cost
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// CategoryGroup groups valuation rows under one category
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
}

type ValuationResponse struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal float64         `json:"grand_total"`
}

// --- GET: /api/reports/valuation ---
// GetStockValuation prices all physical inventory at base-unit cost.
func GetStockValuation(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	var grandTotal float64
	groupedMap := make(map[string]*CategoryGroup)

	for _, p := range products {
		catName := p.Category
		if catName == "" {
			catName = "Uncategorized"
		}
		if _, exists := groupedMap[catName]; !exists {
			groupedMap[catName] = &CategoryGroup{CategoryName: catName, Items: []ValuationItem{}}
		}

		itemTotal := p.Stock * p.CostPrice
		groupedMap[catName].Items = append(groupedMap[catName].Items, ValuationItem{
			Name:      p.Name,
			Quantity:  p.Stock,
			CostPrice: p.CostPrice,
			TotalCost: itemTotal,
		})
		groupedMap[catName].Subtotal += itemTotal
		grandTotal += itemTotal
	}

	var response ValuationResponse
	response.GrandTotal = grandTotal
	for _, group := range groupedMap {
		response.Categories = append(response.Categories, *group)
	}

	c.JSON(http.StatusOK, response)
}
