package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Amiththillenkery/ammafreshghee/config"
	"github.com/Amiththillenkery/ammafreshghee/models"
	"github.com/Amiththillenkery/ammafreshghee/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}, &models.KeepAlive{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// seedTestProducts inserts a paid-delivery and a free-delivery product and
// returns them in that order
func seedTestProducts(t *testing.T, db *gorm.DB) (models.Product, models.Product) {
	paid := models.Product{
		Name:           "Pure Cow Ghee",
		Grams:          500,
		Liter:          0.5,
		Price:          600,
		Description:    "Premium quality cow ghee.",
		Image:          "/bottle-500g.svg",
		DeliveryCharge: 49,
	}
	free := models.Product{
		Name:           "Pure Cow Ghee",
		Grams:          1000,
		Liter:          1,
		Price:          1200,
		Description:    "Best value 1 KG pack.",
		Image:          "/bottle-1kg.svg",
		DeliveryCharge: 0,
	}

	require.NoError(t, db.Create(&paid).Error)
	require.NoError(t, db.Create(&free).Error)
	return paid, free
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateOrder(t *testing.T) {
	db := setupTestDB(t)
	paid, free := seedTestProducts(t, db)
	services.NewMockNotificationDispatcher().SetAsMockForTesting()

	validCustomer := map[string]interface{}{
		"customerName":    "Anita Kumar",
		"customerPhone":   "9876543210",
		"customerEmail":   "anita@example.com",
		"deliveryAddress": "12 Temple Street",
		"city":            "Bengaluru",
		"pincode":         "560001",
	}

	withItems := func(items ...map[string]interface{}) map[string]interface{} {
		body := make(map[string]interface{}, len(validCustomer)+1)
		for k, v := range validCustomer {
			body[k] = v
		}
		body["items"] = items
		return body
	}

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name: "Single paid-delivery item totals 649",
			requestBody: withItems(
				map[string]interface{}{"productId": paid.ID, "quantity": 1},
			),
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, float64(649), data["total_amount"])
				assert.Equal(t, "pending", data["status"])
			},
		},
		{
			name: "Free-delivery product zeroes the delivery charge",
			requestBody: withItems(
				map[string]interface{}{"productId": free.ID, "quantity": 1},
			),
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, float64(1200), data["total_amount"])
			},
		},
		{
			name: "Free-delivery product covers the whole order",
			requestBody: withItems(
				map[string]interface{}{"productId": paid.ID, "quantity": 2},
				map[string]interface{}{"productId": free.ID, "quantity": 1},
			),
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				// 2x600 + 1200, no delivery charge
				assert.Equal(t, float64(2400), data["total_amount"])
			},
		},
		{
			name: "Client-submitted prices are ignored",
			requestBody: withItems(
				map[string]interface{}{"productId": paid.ID, "quantity": 1, "price": 1, "pricePerUnit": 1},
			),
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, float64(649), data["total_amount"])
			},
		},
		{
			name: "Online payment starts in payment_pending",
			requestBody: func() map[string]interface{} {
				body := withItems(map[string]interface{}{"productId": paid.ID, "quantity": 1})
				body["paymentMethod"] = "online"
				return body
			}(),
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "payment_pending", data["status"])
			},
		},
		{
			name: "Unknown product rejects the whole order",
			requestBody: withItems(
				map[string]interface{}{"productId": paid.ID, "quantity": 1},
				map[string]interface{}{"productId": 9999, "quantity": 1},
			),
			expectedStatus: http.StatusNotFound,
			expectedError:  "PRODUCT_NOT_FOUND",
		},
		{
			name: "Missing customer name",
			requestBody: func() map[string]interface{} {
				body := withItems(map[string]interface{}{"productId": paid.ID, "quantity": 1})
				delete(body, "customerName")
				return body
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Empty item list",
			requestBody:    withItems(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Zero quantity",
			requestBody: withItems(
				map[string]interface{}{"productId": paid.ID, "quantity": 0},
			),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Invalid payment method",
			requestBody: func() map[string]interface{} {
				body := withItems(map[string]interface{}{"productId": paid.ID, "quantity": 1})
				body["paymentMethod"] = "barter"
				return body
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/orders", CreateOrder)

			w := postJSON(router, "/orders", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errObj := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errObj["code"])
				return
			}

			assert.True(t, response["success"].(bool))
			if tt.checkResponse != nil {
				tt.checkResponse(t, response["data"].(map[string]interface{}))
			}
		})
	}
}

func TestCreateOrderTotalsMatchPersistedItems(t *testing.T) {
	db := setupTestDB(t)
	paid, _ := seedTestProducts(t, db)
	services.NewMockNotificationDispatcher().SetAsMockForTesting()

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	w := postJSON(router, "/orders", map[string]interface{}{
		"customerName":    "Anita Kumar",
		"customerPhone":   "9876543210",
		"deliveryAddress": "12 Temple Street",
		"city":            "Bengaluru",
		"pincode":         "560001",
		"items": []map[string]interface{}{
			{"productId": paid.ID, "quantity": 3},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order).Error)

	var itemSum float64
	for _, item := range order.Items {
		assert.Equal(t, item.PricePerUnit*float64(item.Quantity), item.TotalPrice)
		itemSum += item.TotalPrice
	}
	assert.Equal(t, itemSum, order.Subtotal)
	assert.Equal(t, order.Subtotal+order.DeliveryCharge, order.TotalAmount)
	assert.Equal(t, float64(1849), order.TotalAmount)
}

func TestCreateOrderAtomicity(t *testing.T) {
	db := setupTestDB(t)
	seedTestProducts(t, db)
	services.NewMockNotificationDispatcher().SetAsMockForTesting()

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	w := postJSON(router, "/orders", map[string]interface{}{
		"customerName":    "Anita Kumar",
		"customerPhone":   "9876543210",
		"deliveryAddress": "12 Temple Street",
		"city":            "Bengaluru",
		"pincode":         "560001",
		"items": []map[string]interface{}{
			{"productId": 9999, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var orderCount, itemCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Equal(t, int64(0), orderCount, "no order row should survive a rejected request")
	assert.Equal(t, int64(0), itemCount, "no item rows should survive a rejected request")
}

func TestCreateOrderDispatchesNotification(t *testing.T) {
	db := setupTestDB(t)
	paid, _ := seedTestProducts(t, db)
	mock := services.NewMockNotificationDispatcher()
	mock.SetAsMockForTesting()

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	w := postJSON(router, "/orders", map[string]interface{}{
		"customerName":    "Anita Kumar",
		"customerPhone":   "9876543210",
		"customerEmail":   "anita@example.com",
		"deliveryAddress": "12 Temple Street",
		"city":            "Bengaluru",
		"pincode":         "560001",
		"items": []map[string]interface{}{
			{"productId": paid.ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.Eventually(t, func() bool {
		return len(mock.Sent()) == 1
	}, time.Second, 10*time.Millisecond, "confirmation should be dispatched asynchronously")

	sent := mock.Sent()[0]
	assert.Equal(t, "Anita Kumar", sent.CustomerName)
	assert.Equal(t, float64(649), sent.TotalAmount)
	assert.Len(t, sent.Items, 1)
}

func TestCreateOrderSurvivesNotificationFailure(t *testing.T) {
	db := setupTestDB(t)
	paid, _ := seedTestProducts(t, db)
	mock := services.NewMockNotificationDispatcher()
	mock.FailWithError = fmt.Errorf("smtp unreachable")
	mock.SetAsMockForTesting()

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	w := postJSON(router, "/orders", map[string]interface{}{
		"customerName":    "Anita Kumar",
		"customerPhone":   "9876543210",
		"deliveryAddress": "12 Temple Street",
		"city":            "Bengaluru",
		"pincode":         "560001",
		"items": []map[string]interface{}{
			{"productId": paid.ID, "quantity": 1},
		},
	})

	assert.Equal(t, http.StatusCreated, w.Code, "notification failure must not fail order creation")
}

func TestGetOrderByNumber(t *testing.T) {
	db := setupTestDB(t)

	order := models.Order{
		OrderNumber:     "AFK1700000000000ABCDEF",
		CustomerName:    "Anita Kumar",
		CustomerPhone:   "9876543210",
		DeliveryAddress: "12 Temple Street",
		City:            "Bengaluru",
		Pincode:         "560001",
		Subtotal:        600,
		DeliveryCharge:  49,
		TotalAmount:     649,
		Status:          models.OrderStatusPending,
		PaymentMethod:   models.PaymentMethodCOD,
	}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID: order.ID, ProductID: 1, ProductName: "Pure Cow Ghee",
		Quantity: 1, PricePerUnit: 600, TotalPrice: 600,
	}).Error)

	router := setupTestRouter()
	router.GET("/orders/:orderNumber", GetOrderByNumber)

	req, _ := http.NewRequest(http.MethodGet, "/orders/"+order.OrderNumber, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, order.OrderNumber, data["order_number"])
	assert.Len(t, data["items"], 1)

	// Unknown order number
	req, _ = http.NewRequest(http.MethodGet, "/orders/AFK0000", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name           string
		initialStatus  models.OrderStatus
		requestStatus  string
		expectedStatus int
		expectedError  string
		finalStatus    models.OrderStatus
	}{
		{
			name:           "Confirm pending order",
			initialStatus:  models.OrderStatusPending,
			requestStatus:  "confirmed",
			expectedStatus: http.StatusOK,
			finalStatus:    models.OrderStatusConfirmed,
		},
		{
			name:           "Ship processing order",
			initialStatus:  models.OrderStatusProcessing,
			requestStatus:  "shipped",
			expectedStatus: http.StatusOK,
			finalStatus:    models.OrderStatusShipped,
		},
		{
			name:           "Cancel active order",
			initialStatus:  models.OrderStatusConfirmed,
			requestStatus:  "cancelled",
			expectedStatus: http.StatusOK,
			finalStatus:    models.OrderStatusCancelled,
		},
		{
			name:           "Unrecognized status is rejected",
			initialStatus:  models.OrderStatusPending,
			requestStatus:  "exploded",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_STATUS",
			finalStatus:    models.OrderStatusPending,
		},
		{
			name:           "Skipping a step is rejected",
			initialStatus:  models.OrderStatusPending,
			requestStatus:  "shipped",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_TRANSITION",
			finalStatus:    models.OrderStatusPending,
		},
		{
			name:           "Delivered is terminal",
			initialStatus:  models.OrderStatusDelivered,
			requestStatus:  "cancelled",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_TRANSITION",
			finalStatus:    models.OrderStatusDelivered,
		},
		{
			name:           "Cancelled is terminal",
			initialStatus:  models.OrderStatusCancelled,
			requestStatus:  "pending",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_TRANSITION",
			finalStatus:    models.OrderStatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)

			order := models.Order{
				OrderNumber:     "AFK1700000000000ABCDEF",
				CustomerName:    "Anita Kumar",
				CustomerPhone:   "9876543210",
				DeliveryAddress: "12 Temple Street",
				City:            "Bengaluru",
				Pincode:         "560001",
				Subtotal:        600,
				DeliveryCharge:  49,
				TotalAmount:     649,
				Status:          tt.initialStatus,
				PaymentMethod:   models.PaymentMethodCOD,
			}
			require.NoError(t, db.Create(&order).Error)

			router := setupTestRouter()
			router.PUT("/admin/orders/:id/status", UpdateOrderStatus)

			data, _ := json.Marshal(map[string]string{"status": tt.requestStatus})
			req, _ := http.NewRequest(http.MethodPut,
				fmt.Sprintf("/admin/orders/%d/status", order.ID), bytes.NewBuffer(data))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				errObj := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errObj["code"])
			}

			var stored models.Order
			require.NoError(t, db.First(&stored, order.ID).Error)
			assert.Equal(t, tt.finalStatus, stored.Status, "stored status after update attempt")
		})
	}
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	setupTestDB(t)

	router := setupTestRouter()
	router.PUT("/admin/orders/:id/status", UpdateOrderStatus)

	data, _ := json.Marshal(map[string]string{"status": "confirmed"})
	req, _ := http.NewRequest(http.MethodPut, "/admin/orders/424242/status", bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrders(t *testing.T) {
	db := setupTestDB(t)

	for i, number := range []string{"AFK100", "AFK200", "AFK300"} {
		order := models.Order{
			OrderNumber:     number,
			CustomerName:    "Customer",
			CustomerPhone:   "9876543210",
			DeliveryAddress: "12 Temple Street",
			City:            "Bengaluru",
			Pincode:         "560001",
			Subtotal:        600,
			DeliveryCharge:  49,
			TotalAmount:     649,
			Status:          models.OrderStatusPending,
			PaymentMethod:   models.PaymentMethodCOD,
			CreatedAt:       time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&order).Error)
	}

	router := setupTestRouter()
	router.GET("/admin/orders", ListOrders)

	req, _ := http.NewRequest(http.MethodGet, "/admin/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	orders := response["data"].([]interface{})
	require.Len(t, orders, 3)

	newest := orders[0].(map[string]interface{})
	assert.Equal(t, "AFK300", newest["order_number"], "orders should come back newest first")
}
