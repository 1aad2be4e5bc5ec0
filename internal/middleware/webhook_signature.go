package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// WebhookSignatureHeader carries hex(HMAC-SHA256(secret, body)).
const WebhookSignatureHeader = "X-Webhook-Signature"

// maxWebhookBody bounds how much of a webhook body is read for signing.
const maxWebhookBody = 1 << 20

// WebhookSignature verifies card-network webhooks. An empty secret disables the check.
func WebhookSignature(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		// Skip verification when no secret is configured
		if len(key) == 0 {
			c.Next()
			return
		}
		logger := GetLoggerFromCtx(c.Request.Context())

		// Read the body and restore it for the handler
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			logger.Warn("Failed to read webhook body", "error", err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unreadable request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		// Compare the signature in constant time
		got, err := hex.DecodeString(c.GetHeader(WebhookSignatureHeader))
		if err != nil || !hmac.Equal(got, SignWebhook(key, body)) {
			logger.Warn("Webhook signature mismatch")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
			return
		}
		c.Next()
	}
}

// SignWebhook computes the raw HMAC-SHA256 of body.
func SignWebhook(key, body []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(body)
	return mac.Sum(nil)
}
