package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderNumberPrefix is the human-facing prefix on every order reference
const OrderNumberPrefix = "AFK"

// GenerateOrderNumber builds a human-readable order reference from the
// current time plus a random suffix. The timestamp keeps references roughly
// sortable; the suffix keeps concurrent requests in the same millisecond from
// colliding. The orders table still enforces uniqueness with a constraint.
func GenerateOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("%s%d%s", OrderNumberPrefix, time.Now().UnixMilli(), suffix)
}

// GenerateTransactionID builds a merchant transaction reference for the
// payment gateway, scoped to an order.
func GenerateTransactionID(orderID uint) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("TXN_%d_%s", orderID, suffix)
}
