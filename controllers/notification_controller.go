package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Amiththillenkery/ammafreshghee/models"
	"github.com/Amiththillenkery/ammafreshghee/services"
	"github.com/gin-gonic/gin"
)

// TestNotificationRequest represents the request body for exercising the
// configured notification channel with a sample order
type TestNotificationRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email" binding:"omitempty,email"`
	Name        string `json:"name"`
}

// TestNotification handles POST /api/admin/test-notification (admin only)
func TestNotification(c *gin.Context) {
	var req TestNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.PhoneNumber == "" && req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Phone number or email is required",
			},
		})
		return
	}

	name := req.Name
	if name == "" {
		name = "Test Customer"
	}

	confirmation := services.OrderConfirmation{
		CustomerName:  name,
		CustomerPhone: req.PhoneNumber,
		CustomerEmail: req.Email,
		OrderNumber:   fmt.Sprintf("TEST%d", time.Now().UnixMilli()),
		TotalAmount:   649,
		Items: []models.OrderItem{
			{
				ProductName:  "Pure Cow Ghee 500g",
				Quantity:     1,
				PricePerUnit: 600,
				TotalPrice:   600,
			},
		},
	}

	if err := services.GetNotificationDispatcher().SendOrderConfirmation(confirmation); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOTIFICATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Test notification sent",
	})
}
