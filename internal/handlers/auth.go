package handlers

import (
	"net/http"

	"github.com/raulvilera/projetoarp/internal/repository"
	"github.com/raulvilera/projetoarp/internal/services"
	"github.com/raulvilera/projetoarp/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler manages consultant account registration and cookie sessions.
type AuthHandler struct {
	log   *zap.Logger
	email *services.EmailService
}

func NewAuthHandler(log *zap.Logger, email *services.EmailService) *AuthHandler {
	return &AuthHandler{log: log, email: email}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Company  string `json:"company"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos obrigatórios ausentes."})
		return
	}
	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "E-mail inválido."})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A senha deve ter no mínimo 8 caracteres."})
		return
	}

	user, err := repository.CreateUser(c.Request.Context(), req.Email, req.Password, req.Name, req.Company)
	if err != nil {
		h.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar a conta."})
		return
	}

	h.email.SendWelcomeEmail(*user)

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos obrigatórios ausentes."})
		return
	}

	user, err := repository.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "E-mail ou senha inválidos."})
		return
	}

	session := sessions.Default(c)
	session.Set("userID", user.ID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao iniciar a sessão."})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		h.log.Error("Failed to clear session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao encerrar a sessão."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
