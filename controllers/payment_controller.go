package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Amiththillenkery/ammafreshghee/config"
	"github.com/Amiththillenkery/ammafreshghee/models"
	"github.com/Amiththillenkery/ammafreshghee/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InitiatePaymentRequest represents the request body for starting a checkout session
type InitiatePaymentRequest struct {
	OrderNumber string `json:"orderNumber" binding:"required"`
}

// InitiatePayment handles POST /api/payment/initiate.
// Only orders awaiting payment can start a checkout session; the merchant
// transaction reference is stored on the order before the URL is returned.
func InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
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

	var order models.Order
	if err := db.Where("order_number = ?", req.OrderNumber).First(&order).Error; err != nil {
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

	if order.Status != models.OrderStatusPaymentPending {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_STATE",
				"message": "Order is not awaiting payment",
			},
		})
		return
	}

	gateway := services.GetPaymentGateway()
	initiation, err := gateway.InitiatePayment(&order)
	if err != nil {
		log.Printf("Payment initiation failed for order %s: %v", order.OrderNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PAYMENT_GATEWAY_ERROR",
				"message": "Failed to initiate payment",
			},
		})
		return
	}

	order.PaymentTransactionID = &initiation.TransactionID
	if err := db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record payment reference",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"transaction_id": initiation.TransactionID,
			"payment_url":    initiation.PaymentURL,
		},
	})
}

// PaymentCallbackRequest is the gateway's server-to-server callback body:
// a base64 payload plus the checksum that must verify before it is trusted
type PaymentCallbackRequest struct {
	Response string `json:"response" binding:"required"`
	Checksum string `json:"checksum" binding:"required"`
}

// PaymentCallback handles POST /api/payment/callback.
// A callback whose checksum does not verify is rejected and changes nothing.
func PaymentCallback(c *gin.Context) {
	var req PaymentCallbackRequest
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

	gateway := services.GetPaymentGateway()
	result, err := gateway.VerifyCallback(req.Response, req.Checksum)
	if err != nil {
		if errors.Is(err, services.ErrInvalidChecksum) {
			log.Printf("Rejected payment callback with invalid checksum")
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_CHECKSUM",
					"message": "Callback verification failed",
				},
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CALLBACK",
				"message": "Could not process callback payload",
			},
		})
		return
	}

	order, status, errResp := applyPaymentState(result.TransactionID, result.State)
	if errResp != nil {
		c.JSON(status, errResp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"transaction_id": result.TransactionID,
			"payment_state":  result.State,
			"order_status":   order.Status,
		},
	})
}

// PaymentStatus handles GET /api/payment/status/:transactionId.
// The gateway answer is normalized and the order reconciled the same way a
// callback would.
func PaymentStatus(c *gin.Context) {
	transactionID := c.Param("transactionId")

	gateway := services.GetPaymentGateway()
	result, err := gateway.CheckStatus(transactionID)
	if err != nil {
		log.Printf("Payment status check failed for %s: %v", transactionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PAYMENT_GATEWAY_ERROR",
				"message": "Failed to check payment status",
			},
		})
		return
	}

	order, status, errResp := applyPaymentState(transactionID, result.State)
	if errResp != nil {
		c.JSON(status, errResp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"transaction_id": transactionID,
			"payment_state":  result.State,
			"code":           result.Code,
			"order_status":   order.Status,
		},
	})
}

// applyPaymentState reconciles an order with a verified payment outcome.
// Success moves payment_pending to pending, a terminal failure moves it to
// payment_failed, and a still-pending payment changes nothing. Orders that
// already left payment_pending are not touched again.
func applyPaymentState(transactionID string, state services.PaymentState) (*models.Order, int, gin.H) {
	db := config.GetDB()

	var order models.Order
	if err := db.Where("payment_transaction_id = ?", transactionID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "No order matches this transaction reference",
				},
			}
		}
		return nil, http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch order",
			},
		}
	}

	var target models.OrderStatus
	switch state {
	case services.PaymentStateSuccess:
		target = models.OrderStatusPending
	case services.PaymentStateFailed:
		target = models.OrderStatusPaymentFailed
	default:
		return &order, 0, nil
	}

	if !order.Status.CanTransitionTo(target) {
		// Duplicate callback or late status check; leave the order as is
		return &order, 0, nil
	}

	order.Status = target
	if err := db.Save(&order).Error; err != nil {
		return nil, http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		}
	}

	BroadcastOrderEvent("order_updated", &order)
	return &order, 0, nil
}
