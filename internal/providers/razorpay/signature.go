package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPayment computes the checkout confirmation signature the gateway sends
// to clients: hex HMAC-SHA256 over "orderID|paymentID" keyed by the API
// secret. Exposed for tests and local tooling.
func SignPayment(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature reports whether signature proves that the
// (orderID, paymentID) pair was confirmed by the gateway holding secret.
// The comparison is constant time; a short-circuit string compare would
// leak matching prefixes to a forger.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := SignPayment(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
