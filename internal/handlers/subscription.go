package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/raulvilera/projetoarp/internal/config"
	"github.com/raulvilera/projetoarp/internal/models"
	"github.com/raulvilera/projetoarp/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Webhook-Signature"

// SubscriptionHandler exposes the subscription status and receives payment
// provider webhooks.
type SubscriptionHandler struct {
	log *zap.Logger
}

func NewSubscriptionHandler(log *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{log: log}
}

// Status handles GET /api/subscription/status for the logged-in consultant.
func (h *SubscriptionHandler) Status(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusOK, gin.H{"status": models.SubscriptionInactive, "hasSession": false})
		return
	}
	currentUser := user.(*models.User)

	// The configured admin account always has full access.
	if adminEmail := config.Conf.Admin.Email; adminEmail != "" && currentUser.Email == adminEmail {
		c.JSON(http.StatusOK, gin.H{
			"status":     models.SubscriptionActive,
			"plan":       models.PlanAnual,
			"hasSession": true,
		})
		return
	}

	sub, err := repository.GetSubscriptionByUser(c.Request.Context(), currentUser.ID)
	if err != nil {
		h.log.Error("Failed to load subscription", zap.Error(err), zap.Uint("user_id", currentUser.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao consultar a assinatura."})
		return
	}
	if sub == nil {
		c.JSON(http.StatusOK, gin.H{"status": models.SubscriptionInactive, "hasSession": true})
		return
	}

	status := models.SubscriptionInactive
	if sub.IsActive(time.Now()) {
		status = models.SubscriptionActive
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"plan":           sub.PlanID,
		"endsAt":         sub.EndsAt,
		"subscriptionId": sub.ID,
		"hasSession":     true,
	})
}

// webhookPayload is the payment provider's event body.
type webhookPayload struct {
	Event          string     `json:"event"`
	SubscriptionID string     `json:"subscription_id"`
	UserEmail      string     `json:"user_email"`
	PlanID         string     `json:"plan_id"`
	Status         string     `json:"status"`
	EndsAt         *time.Time `json:"ends_at"`
}

// Webhook handles POST /api/webhooks/payment. The body must be signed with
// the shared webhook secret; unsigned or tampered requests change nothing.
func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if !verifySignature(body, c.GetHeader(SignatureHeader), config.Conf.Payment.WebhookSecret) {
		h.log.Warn("Rejected webhook with bad signature", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.SubscriptionID == "" || payload.UserEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing subscription_id or user_email"})
		return
	}

	user, err := repository.GetUserByEmail(c.Request.Context(), payload.UserEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.log.Warn("Webhook for unknown user", zap.String("email", payload.UserEmail))
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown user"})
			return
		}
		h.log.Error("Failed to resolve webhook user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	sub, err := repository.UpsertSubscription(c.Request.Context(), payload.SubscriptionID, user.ID, payload.PlanID, payload.Status, payload.EndsAt)
	if err != nil {
		h.log.Error("Failed to upsert subscription", zap.Error(err), zap.String("subscription_id", payload.SubscriptionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "persist failed"})
		return
	}

	h.log.Info("Subscription updated from webhook",
		zap.String("event", payload.Event),
		zap.String("subscription_id", sub.ID),
		zap.String("status", sub.Status),
		zap.Uint("user_id", user.ID),
	)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// verifySignature checks the hex HMAC-SHA256 of body against the header
// value using a constant-time comparison.
func verifySignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
