package controllers

import (
	"net/http"

	"github.com/Amiththillenkery/ammafreshghee/config"
	"github.com/Amiththillenkery/ammafreshghee/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TrackOrder handles GET /api/track/:orderNumber - order detail plus progress view
func TrackOrder(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	err := db.Preload("Items").Where("order_number = ?", c.Param("orderNumber")).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Please check your order number and try again",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to track order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":    order,
			"tracking": order.Tracking(),
		},
	})
}

// TrackByPhone handles GET /api/track/phone/:phone - all still-active orders
// for a phone number (delivered and cancelled are filtered out)
func TrackByPhone(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	err := db.Preload("Items").
		Where("customer_phone = ? AND status NOT IN ?", c.Param("phone"),
			[]models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCancelled}).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	message := "Orders found"
	if len(orders) == 0 {
		message = "No pending orders found for this phone number"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data": gin.H{
			"count":  len(orders),
			"orders": orders,
		},
	})
}
