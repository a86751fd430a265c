package router

import (
	"net/http"

	"github.com/raulvilera/projetoarp/internal/config"
	"github.com/raulvilera/projetoarp/internal/models"
	"github.com/raulvilera/projetoarp/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLoaderMiddleware checks for a userID in the session.
// If found, it loads the user from the database and adds it to the context.
// This ensures we don't have "zombie" sessions for users who no longer exist.
func UserLoaderMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get("userID").(uint)
		if !ok {
			// No user ID in session, proceed as a guest.
			c.Next()
			return
		}

		user, err := repository.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			// User ID from session is invalid (user was deleted, etc.)
			// Clear the bad session and treat as a guest.
			log.Debug("Clearing session for missing user", zap.Uint("user_id", userID))
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			session.Save()
			c.Next()
			return
		}

		// User is valid, store user object in context for other handlers.
		c.Set("user", user)
		c.Next()
	}
}

// AuthRequired checks if a valid user was loaded into the context.
func AuthRequired(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user"); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sessão necessária."})
			return
		}
		c.Next()
	}
}

// SubscriptionRequired gates the management dashboard behind an active
// subscription. The configured admin email bypasses the check.
func SubscriptionRequired(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sessão necessária."})
			return
		}
		currentUser := user.(*models.User)

		if adminEmail := config.Conf.Admin.Email; adminEmail != "" && currentUser.Email == adminEmail {
			c.Next()
			return
		}

		active, err := repository.HasActiveSubscription(c.Request.Context(), currentUser.ID)
		if err != nil {
			log.Error("Failed to check subscription", zap.Error(err), zap.Uint("user_id", currentUser.ID))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Erro ao verificar a assinatura."})
			return
		}
		if !active {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "Assinatura ativa necessária."})
			return
		}
		c.Next()
	}
}
