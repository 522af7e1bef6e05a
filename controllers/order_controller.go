package controllers

import (
	"log"
	"net/http"

	"github.com/Amiththillenkery/ammafreshghee/config"
	"github.com/Amiththillenkery/ammafreshghee/models"
	"github.com/Amiththillenkery/ammafreshghee/services"
	"github.com/Amiththillenkery/ammafreshghee/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FlatDeliveryCharge applies when no purchased product carries free delivery
const FlatDeliveryCharge = 49.0

// OrderItemRequest is one (product, quantity) line in an order submission.
// Client-submitted prices are deliberately absent: the server recomputes
// every amount from the catalog.
type OrderItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	CustomerName    string             `json:"customerName" binding:"required"`
	CustomerPhone   string             `json:"customerPhone" binding:"required"`
	CustomerEmail   string             `json:"customerEmail" binding:"omitempty,email"`
	DeliveryAddress string             `json:"deliveryAddress" binding:"required"`
	City            string             `json:"city" binding:"required"`
	Pincode         string             `json:"pincode" binding:"required"`
	Landmark        string             `json:"landmark"`
	PaymentMethod   string             `json:"paymentMethod" binding:"omitempty,oneof=cod online"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder handles POST /api/orders.
// Prices are re-fetched from the catalog per line; an unknown product rejects
// the whole request and nothing is persisted. The order row and its items are
// written in a single transaction.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
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

	db := config.GetDB()

	// Verify prices against the catalog and build the item snapshots
	var subtotal float64
	var freeDelivery bool
	items := make([]models.OrderItem, 0, len(req.Items))

	for _, line := range req.Items {
		var product models.Product
		if err := db.First(&product, "id = ?", line.ProductID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "PRODUCT_NOT_FOUND",
						"message": "One or more products in the order do not exist",
					},
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to verify products",
				},
			})
			return
		}

		lineTotal := product.Price * float64(line.Quantity)
		subtotal += lineTotal
		if product.HasFreeDelivery() {
			freeDelivery = true
		}

		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     line.Quantity,
			PricePerUnit: product.Price,
			TotalPrice:   lineTotal,
		})
	}

	deliveryCharge := FlatDeliveryCharge
	if freeDelivery {
		deliveryCharge = 0
	}

	paymentMethod := models.PaymentMethod(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCOD
	}

	status := models.OrderStatusPending
	if paymentMethod == models.PaymentMethodOnline {
		status = models.OrderStatusPaymentPending
	}

	order := models.Order{
		OrderNumber:     utils.GenerateOrderNumber(),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		City:            req.City,
		Pincode:         req.Pincode,
		Subtotal:        subtotal,
		DeliveryCharge:  deliveryCharge,
		TotalAmount:     subtotal + deliveryCharge,
		Status:          status,
		PaymentMethod:   paymentMethod,
	}
	if req.CustomerEmail != "" {
		order.CustomerEmail = &req.CustomerEmail
	}
	if req.Landmark != "" {
		order.Landmark = &req.Landmark
	}

	// Order row and item rows commit or roll back together
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}
	order.Items = items

	// Fire-and-forget confirmation; a delivery failure never fails the order
	if dispatcher := services.GetNotificationDispatcher(); dispatcher != nil {
		confirmation := services.OrderConfirmation{
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
			CustomerEmail: req.CustomerEmail,
			OrderNumber:   order.OrderNumber,
			TotalAmount:   order.TotalAmount,
			Items:         items,
		}
		go func() {
			if err := dispatcher.SendOrderConfirmation(confirmation); err != nil {
				log.Printf("Order confirmation notification failed for %s: %v", confirmation.OrderNumber, err)
			}
		}()
	}

	BroadcastOrderEvent("order_created", &order)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"data": gin.H{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"total_amount": order.TotalAmount,
			"status":       order.Status,
		},
	})
}

// GetOrderByNumber handles GET /api/orders/:orderNumber - order with items
func GetOrderByNumber(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	err := db.Preload("Items").Where("order_number = ?", c.Param("orderNumber")).First(&order).Error
	if err != nil {
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/admin/orders - full order book, newest first (admin only)
func ListOrders(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	if err := db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// UpdateOrderStatusRequest represents the request body for an admin status update
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus handles PUT /api/admin/orders/:id/status (admin only).
// The transition is checked against the order state machine; an unknown
// status or an illegal transition leaves the order unchanged.
func UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
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

	target, ok := models.ParseOrderStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Unrecognized order status: " + req.Status,
			},
		})
		return
	}

	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, "id = ?", c.Param("id")).Error; err != nil {
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

	if !order.Status.CanTransitionTo(target) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "Cannot move order from " + string(order.Status) + " to " + string(target),
			},
		})
		return
	}

	order.Status = target
	if err := db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order status",
			},
		})
		return
	}

	BroadcastOrderEvent("order_updated", &order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated successfully",
		"data":    order,
	})
}
