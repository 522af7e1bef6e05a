package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/Amiththillenkery/ammafreshghee/config"
	"github.com/Amiththillenkery/ammafreshghee/models"
	"github.com/Amiththillenkery/ammafreshghee/utils"
)

// PaymentState is the normalized outcome of a gateway status check or callback
type PaymentState string

const (
	PaymentStateSuccess PaymentState = "success"
	PaymentStatePending PaymentState = "pending"
	PaymentStateFailed  PaymentState = "failed"
)

// PhonePe response codes that mean the payment is still in flight
var pendingPaymentCodes = map[string]bool{
	"PAYMENT_PENDING":   true,
	"PAYMENT_INITIATED": true,
}

const successPaymentCode = "PAYMENT_SUCCESS"

// StateFromCode maps a PhonePe response code to a normalized payment state
func StateFromCode(code string) PaymentState {
	switch {
	case code == successPaymentCode:
		return PaymentStateSuccess
	case pendingPaymentCodes[code]:
		return PaymentStatePending
	default:
		return PaymentStateFailed
	}
}

// PaymentInitiation is the result of starting a hosted checkout session
type PaymentInitiation struct {
	TransactionID string `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
}

// PaymentStatusResult is the verified outcome of a gateway status call
type PaymentStatusResult struct {
	TransactionID string       `json:"transaction_id"`
	State         PaymentState `json:"state"`
	Code          string       `json:"code"`
	Message       string       `json:"message"`
}

// CallbackResult is a decoded, checksum-verified gateway callback
type CallbackResult struct {
	TransactionID string
	State         PaymentState
	Code          string
}

// PaymentGateway is the contract the order flow needs from the payment
// provider: a checkout URL for an amount and reference, and a verified
// answer on whether that reference succeeded.
type PaymentGateway interface {
	InitiatePayment(order *models.Order) (*PaymentInitiation, error)
	CheckStatus(transactionID string) (*PaymentStatusResult, error)
	VerifyCallback(base64Response, checksum string) (*CallbackResult, error)
}

var paymentGatewayInstance PaymentGateway

// InitPaymentGateway initializes the PhonePe-backed payment gateway
func InitPaymentGateway(cfg *config.Config) PaymentGateway {
	paymentGatewayInstance = NewPhonePeClient(cfg)
	return paymentGatewayInstance
}

// GetPaymentGateway returns the initialized payment gateway instance
func GetPaymentGateway() PaymentGateway {
	return paymentGatewayInstance
}

// SetPaymentGateway sets the payment gateway instance (primarily for testing)
func SetPaymentGateway(gateway PaymentGateway) {
	paymentGatewayInstance = gateway
}

const (
	phonePeProductionURL = "https://api.phonepe.com/apis/hermes"
	phonePeSandboxURL    = "https://api-preprod.phonepe.com/apis/pg-sandbox"
	payEndpoint          = "/pg/v1/pay"
)

// PhonePeClient talks to the PhonePe hosted-checkout API
type PhonePeClient struct {
	MerchantID  string
	SaltKey     string
	SaltIndex   string
	BaseURL     string
	RedirectURL string
	CallbackURL string
	HTTPClient  *http.Client
}

// NewPhonePeClient builds a client from configuration, selecting the sandbox
// or production endpoint by PHONEPE_ENV
func NewPhonePeClient(cfg *config.Config) *PhonePeClient {
	baseURL := phonePeSandboxURL
	if cfg.PhonePeEnv == "production" {
		baseURL = phonePeProductionURL
	}

	return &PhonePeClient{
		MerchantID:  cfg.PhonePeMerchantID,
		SaltKey:     cfg.PhonePeSaltKey,
		SaltIndex:   cfg.PhonePeSaltIndex,
		BaseURL:     baseURL,
		RedirectURL: cfg.PhonePeRedirectURL,
		CallbackURL: cfg.PhonePeCallbackURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// payRequest is the PhonePe pay API payload
type payRequest struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Amount                int64             `json:"amount"`
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	CallbackURL           string            `json:"callbackUrl"`
	MobileNumber          string            `json:"mobileNumber"`
	PaymentInstrument     paymentInstrument `json:"paymentInstrument"`
}

type paymentInstrument struct {
	Type string `json:"type"`
}

type payResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		InstrumentResponse struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MerchantTransactionID string `json:"merchantTransactionId"`
	} `json:"data"`
}

// callbackPayload is the base64-decoded body of a gateway callback
type callbackPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MerchantTransactionID string `json:"merchantTransactionId"`
	} `json:"data"`
}

// checksum computes the PhonePe X-VERIFY value:
// SHA256(message + saltKey) in hex, followed by "###" and the salt index
func (p *PhonePeClient) checksum(message string) string {
	sum := sha256.Sum256([]byte(message + p.SaltKey))
	return hex.EncodeToString(sum[:]) + "###" + p.SaltIndex
}

// AmountInPaise converts a rupee amount to the gateway's minor currency unit
func AmountInPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// InitiatePayment starts a hosted checkout session for the order and returns
// the URL the customer is redirected to
func (p *PhonePeClient) InitiatePayment(order *models.Order) (*PaymentInitiation, error) {
	transactionID := utils.GenerateTransactionID(order.ID)

	payload := payRequest{
		MerchantID:            p.MerchantID,
		MerchantTransactionID: transactionID,
		MerchantUserID:        "USER_" + order.CustomerPhone,
		Amount:                AmountInPaise(order.TotalAmount),
		RedirectURL:           p.RedirectURL,
		RedirectMode:          "REDIRECT",
		CallbackURL:           p.CallbackURL,
		MobileNumber:          order.CustomerPhone,
		PaymentInstrument:     paymentInstrument{Type: "PAY_PAGE"},
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pay request: %w", err)
	}
	base64Payload := base64.StdEncoding.EncodeToString(payloadJSON)

	body, err := json.Marshal(map[string]string{"request": base64Payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.BaseURL+payEndpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", p.checksum(base64Payload+payEndpoint))

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var payResp payResponse
	if err := json.Unmarshal(respBody, &payResp); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}

	if !payResp.Success {
		return nil, fmt.Errorf("payment initiation failed: %s", payResp.Message)
	}
	if payResp.Data.InstrumentResponse.RedirectInfo.URL == "" {
		return nil, fmt.Errorf("payment gateway returned empty checkout URL")
	}

	return &PaymentInitiation{
		TransactionID: transactionID,
		PaymentURL:    payResp.Data.InstrumentResponse.RedirectInfo.URL,
	}, nil
}

// CheckStatus asks the gateway for the current state of a transaction,
// normalizing provider response codes to success/pending/failed
func (p *PhonePeClient) CheckStatus(transactionID string) (*PaymentStatusResult, error) {
	endpoint := fmt.Sprintf("/pg/v1/status/%s/%s", p.MerchantID, transactionID)

	req, err := http.NewRequest(http.MethodGet, p.BaseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", p.checksum(endpoint))
	req.Header.Set("X-MERCHANT-ID", p.MerchantID)

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var statusResp statusResponse
	if err := json.Unmarshal(respBody, &statusResp); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}

	state := StateFromCode(statusResp.Code)
	if !statusResp.Success && state != PaymentStatePending {
		state = PaymentStateFailed
	}

	return &PaymentStatusResult{
		TransactionID: transactionID,
		State:         state,
		Code:          statusResp.Code,
		Message:       statusResp.Message,
	}, nil
}

// ErrInvalidChecksum is returned when a callback's signature does not verify
var ErrInvalidChecksum = fmt.Errorf("callback checksum verification failed")

// VerifyCallback validates a gateway callback's checksum and decodes its
// payload. Callbacks that fail verification are never trusted.
func (p *PhonePeClient) VerifyCallback(base64Response, receivedChecksum string) (*CallbackResult, error) {
	if p.checksum(base64Response) != receivedChecksum {
		return nil, ErrInvalidChecksum
	}

	decoded, err := base64.StdEncoding.DecodeString(base64Response)
	if err != nil {
		return nil, fmt.Errorf("failed to decode callback payload: %w", err)
	}

	var payload callbackPayload
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse callback payload: %w", err)
	}

	if payload.Data.MerchantTransactionID == "" {
		return nil, fmt.Errorf("callback payload missing transaction reference")
	}

	return &CallbackResult{
		TransactionID: payload.Data.MerchantTransactionID,
		State:         StateFromCode(payload.Code),
		Code:          payload.Code,
	}, nil
}
