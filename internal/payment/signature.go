package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// sign computes the hex HMAC-SHA256 of message under secret. The gateway
// signs payment confirmations as HMAC(gatewayOrderID + "|" + paymentID) and
// webhook deliveries as HMAC over the raw request body.
func sign(message []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature checks an explicit verification call's signature
// in constant time.
func VerifyPaymentSignature(gatewayOrderID, paymentID, signature, secret string) bool {
	expected := sign([]byte(gatewayOrderID+"|"+paymentID), secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks a webhook body signature in constant time.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	expected := sign(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
