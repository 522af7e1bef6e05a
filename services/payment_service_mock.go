package services

import (
	"fmt"
	"sync"

	"github.com/Amiththillenkery/ammafreshghee/models"
)

// MockPaymentGateway is a mock implementation of PaymentGateway for testing
type MockPaymentGateway struct {
	mu sync.Mutex

	// Canned responses
	InitiationURL string
	StatusByTxn   map[string]PaymentState
	CallbackState PaymentState
	CallbackTxnID string
	FailChecksum  bool
	InitiateErr   error

	// Recorded calls
	InitiatedOrders []uint
	StatusChecks    []string
}

// NewMockPaymentGateway creates a new mock payment gateway
func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{
		InitiationURL: "https://pay.example.test/checkout",
		StatusByTxn:   make(map[string]PaymentState),
	}
}

// SetAsMockForTesting sets this mock as the global payment gateway instance for testing
func (m *MockPaymentGateway) SetAsMockForTesting() {
	SetPaymentGateway(m)
}

// InitiatePayment simulates starting a hosted checkout session
func (m *MockPaymentGateway) InitiatePayment(order *models.Order) (*PaymentInitiation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InitiateErr != nil {
		return nil, m.InitiateErr
	}

	m.InitiatedOrders = append(m.InitiatedOrders, order.ID)
	txnID := fmt.Sprintf("TXN_%d_MOCK", order.ID)
	return &PaymentInitiation{
		TransactionID: txnID,
		PaymentURL:    m.InitiationURL,
	}, nil
}

// CheckStatus simulates a gateway status call
func (m *MockPaymentGateway) CheckStatus(transactionID string) (*PaymentStatusResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StatusChecks = append(m.StatusChecks, transactionID)

	state, ok := m.StatusByTxn[transactionID]
	if !ok {
		state = PaymentStatePending
	}

	code := "PAYMENT_PENDING"
	switch state {
	case PaymentStateSuccess:
		code = "PAYMENT_SUCCESS"
	case PaymentStateFailed:
		code = "PAYMENT_ERROR"
	}

	return &PaymentStatusResult{
		TransactionID: transactionID,
		State:         state,
		Code:          code,
	}, nil
}

// VerifyCallback simulates checksum verification of a gateway callback
func (m *MockPaymentGateway) VerifyCallback(base64Response, checksum string) (*CallbackResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailChecksum {
		return nil, ErrInvalidChecksum
	}

	state := m.CallbackState
	if state == "" {
		state = PaymentStateSuccess
	}

	code := "PAYMENT_SUCCESS"
	switch state {
	case PaymentStatePending:
		code = "PAYMENT_PENDING"
	case PaymentStateFailed:
		code = "PAYMENT_ERROR"
	}

	return &CallbackResult{
		TransactionID: m.CallbackTxnID,
		State:         state,
		Code:          code,
	}, nil
}
