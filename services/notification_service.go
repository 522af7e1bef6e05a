package services

import (
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"github.com/Amiththillenkery/ammafreshghee/config"
	"github.com/Amiththillenkery/ammafreshghee/models"
)

// OrderConfirmation carries everything needed to notify a customer that
// their order was placed
type OrderConfirmation struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	OrderNumber   string
	TotalAmount   float64
	Items         []models.OrderItem
}

// NotificationDispatcher sends order confirmations over the configured
// channel. Implementations must be safe to call from a goroutine: failures
// are logged by the caller and never affect the order itself.
type NotificationDispatcher interface {
	SendOrderConfirmation(confirmation OrderConfirmation) error
}

var notificationDispatcherInstance NotificationDispatcher

// InitNotificationDispatcher initializes the dispatcher from configuration
func InitNotificationDispatcher(cfg *config.Config) NotificationDispatcher {
	notificationDispatcherInstance = &Notifier{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	return notificationDispatcherInstance
}

// GetNotificationDispatcher returns the initialized dispatcher instance
func GetNotificationDispatcher() NotificationDispatcher {
	return notificationDispatcherInstance
}

// SetNotificationDispatcher sets the dispatcher instance (primarily for testing)
func SetNotificationDispatcher(dispatcher NotificationDispatcher) {
	notificationDispatcherInstance = dispatcher
}

// Notifier sends confirmations via WhatsApp, email, both, or neither,
// depending on NOTIFICATION_METHOD
type Notifier struct {
	cfg        *config.Config
	httpClient *http.Client
}

// SendOrderConfirmation renders and delivers the confirmation over the
// configured channel(s)
func (n *Notifier) SendOrderConfirmation(confirmation OrderConfirmation) error {
	method := n.cfg.NotificationMethod

	if method == "none" || method == "" {
		log.Printf("Notifications disabled; order %s for %s (total ₹%.2f)",
			confirmation.OrderNumber, confirmation.CustomerName, confirmation.TotalAmount)
		return nil
	}

	var errs []string

	if method == "whatsapp" || method == "both" {
		if err := n.sendWhatsApp(confirmation); err != nil {
			errs = append(errs, fmt.Sprintf("whatsapp: %v", err))
		}
	}

	if method == "email" || method == "both" {
		if confirmation.CustomerEmail == "" {
			errs = append(errs, "email: no address provided")
		} else if err := n.sendEmail(confirmation); err != nil {
			errs = append(errs, fmt.Sprintf("email: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification delivery failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// BuildConfirmationMessage renders the itemized plain-text confirmation
func BuildConfirmationMessage(confirmation OrderConfirmation, businessName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s, thank you for your order with %s!\n\n", confirmation.CustomerName, businessName)
	fmt.Fprintf(&b, "Order Number: %s\n\n", confirmation.OrderNumber)
	b.WriteString("Items:\n")
	for _, item := range confirmation.Items {
		fmt.Fprintf(&b, "- %s x%d @ ₹%.2f = ₹%.2f\n",
			item.ProductName, item.Quantity, item.PricePerUnit, item.TotalPrice)
	}
	fmt.Fprintf(&b, "\nTotal: ₹%.2f\n\n", confirmation.TotalAmount)
	fmt.Fprintf(&b, "Track your order anytime with your order number %s.", confirmation.OrderNumber)

	return b.String()
}

// formatPhoneForWhatsApp strips spaces and prepends the Indian country code
// for bare 10-digit numbers
func formatPhoneForWhatsApp(phone string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "+", "").Replace(phone)
	if len(cleaned) == 10 {
		return "91" + cleaned
	}
	return cleaned
}

func (n *Notifier) sendWhatsApp(confirmation OrderConfirmation) error {
	message := BuildConfirmationMessage(confirmation, n.cfg.BusinessName)
	phone := formatPhoneForWhatsApp(confirmation.CustomerPhone)

	switch n.cfg.WhatsAppProvider {
	case "callmebot":
		return n.sendViaCallMeBot(phone, message)
	default:
		// Fallback: generate a wa.me link the operator can click to send manually
		link := fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
		log.Printf("WhatsApp link for order %s: %s", confirmation.OrderNumber, link)
		return nil
	}
}

// sendViaCallMeBot delivers the message through the CallMeBot WhatsApp API.
// CallMeBot sends to the merchant's own registered number, which forwards it on.
func (n *Notifier) sendViaCallMeBot(customerPhone, message string) error {
	if n.cfg.CallMeBotAPIKey == "" || n.cfg.CallMeBotPhone == "" {
		return fmt.Errorf("CallMeBot not configured: set CALLMEBOT_API_KEY and CALLMEBOT_PHONE")
	}

	params := url.Values{}
	params.Set("phone", n.cfg.CallMeBotPhone)
	params.Set("text", fmt.Sprintf("[ORDER NOTIFICATION]\n\nCustomer: %s\n\n%s", customerPhone, message))
	params.Set("apikey", n.cfg.CallMeBotAPIKey)

	resp, err := n.httpClient.Get("https://api.callmebot.com/whatsapp.php?" + params.Encode())
	if err != nil {
		return fmt.Errorf("failed to reach CallMeBot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("CallMeBot returned status %d", resp.StatusCode)
	}
	return nil
}

func (n *Notifier) sendEmail(confirmation OrderConfirmation) error {
	if n.cfg.EmailUser == "" || n.cfg.EmailPassword == "" {
		return fmt.Errorf("email not configured: set EMAIL_USER and EMAIL_PASSWORD")
	}

	body := BuildConfirmationMessage(confirmation, n.cfg.BusinessName)
	subject := fmt.Sprintf("Order Confirmation - %s", confirmation.OrderNumber)

	msg := strings.Join([]string{
		"From: " + n.cfg.EmailUser,
		"To: " + confirmation.CustomerEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPHost, n.cfg.SMTPPort)
	auth := smtp.PlainAuth("", n.cfg.EmailUser, n.cfg.EmailPassword, n.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, n.cfg.EmailUser, []string{confirmation.CustomerEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
