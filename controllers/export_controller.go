package controllers

import (
	"fmt"
	"net/http"

	"github.com/Amiththillenkery/ammafreshghee/config"
	"github.com/Amiththillenkery/ammafreshghee/models"
	"github.com/Amiththillenkery/ammafreshghee/services"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// OrderPDF handles GET /api/admin/orders/:id/pdf - streams the delivery slip
// and invoice document for one order (admin only)
func OrderPDF(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch order",
			},
		})
		return
	}

	cfg := config.GetConfig()
	renderer := services.NewPDFRenderer(cfg.BusinessName, cfg.BusinessPhone)

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=order-%s.pdf", order.OrderNumber))

	if err := renderer.RenderOrder(c.Writer, &order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PDF_ERROR",
				"message": "Failed to generate PDF",
			},
		})
		return
	}
}

// ExportOrdersExcel handles GET /api/admin/orders/export - the full order
// book as an Excel workbook (admin only)
func ExportOrdersExcel(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	if err := db.Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_ERROR",
				"message": "Failed to create Excel sheet",
			},
		})
		return
	}

	headers := []string{
		"OrderNumber", "Status", "CustomerName", "CustomerPhone",
		"City", "Pincode", "Subtotal", "DeliveryCharge", "TotalAmount",
		"PaymentMethod", "CreatedAt",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.OrderNumber)
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(o.CustomerName)
		row.AddCell().SetValue(o.CustomerPhone)
		row.AddCell().SetValue(o.City)
		row.AddCell().SetValue(o.Pincode)
		row.AddCell().SetValue(o.Subtotal)
		row.AddCell().SetValue(o.DeliveryCharge)
		row.AddCell().SetValue(o.TotalAmount)
		row.AddCell().SetValue(string(o.PaymentMethod))
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_ERROR",
				"message": "Failed to write Excel file",
			},
		})
		return
	}
}
