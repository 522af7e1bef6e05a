package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/Amiththillenkery/ammafreshghee/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pdfTestOrder() *models.Order {
	landmark := "Opposite temple"
	return &models.Order{
		ID:              1,
		OrderNumber:     "AFK1700000000000AB12CD",
		CustomerName:    "Priya",
		CustomerPhone:   "9876543210",
		DeliveryAddress: "12 MG Road",
		City:            "Kochi",
		Pincode:         "682001",
		Landmark:        &landmark,
		Subtotal:        1200,
		DeliveryCharge:  49,
		TotalAmount:     1249,
		Status:          models.OrderStatusConfirmed,
		CreatedAt:       time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductName: "Pure Ghee 500g", Quantity: 2, PricePerUnit: 600, TotalPrice: 1200},
		},
	}
}

func TestRenderOrder(t *testing.T) {
	renderer := NewPDFRenderer("Amma Fresh", "9000000000")

	var buf bytes.Buffer
	err := renderer.RenderOrder(&buf, pdfTestOrder())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output should be a PDF document")
	assert.Greater(t, buf.Len(), 1000)
}

func TestRenderOrderWithoutLandmark(t *testing.T) {
	renderer := NewPDFRenderer("Amma Fresh", "")

	order := pdfTestOrder()
	order.Landmark = nil

	var buf bytes.Buffer
	require.NoError(t, renderer.RenderOrder(&buf, order))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestAddressLocality(t *testing.T) {
	order := pdfTestOrder()
	assert.Equal(t, "Kochi - 682001 (near Opposite temple)", addressLocality(order))

	order.Landmark = nil
	assert.Equal(t, "Kochi - 682001", addressLocality(order))
}
