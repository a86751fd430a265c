package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/raulvilera/projetoarp/internal/models"
	"github.com/raulvilera/projetoarp/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResponseHandler accepts survey submissions from the public collection UI.
type ResponseHandler struct {
	log           *zap.Logger
	questionnaire *models.Questionnaire
}

func NewResponseHandler(log *zap.Logger, questionnaire *models.Questionnaire) *ResponseHandler {
	return &ResponseHandler{log: log, questionnaire: questionnaire}
}

// submitRequest is the submission body. Binding to map[string]int rejects
// non-numeric answer values outright, so malformed values never reach the
// aggregation engine.
type submitRequest struct {
	CompanyName string         `json:"companyName" binding:"required"`
	Role        string         `json:"role" binding:"required"`
	Department  string         `json:"department" binding:"required"`
	Answers     map[string]int `json:"answers" binding:"required"`
}

// Submit handles POST /api/responses.
func (h *ResponseHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Rejected malformed submission", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos obrigatórios ausentes ou inválidos."})
		return
	}

	if len(req.Answers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhuma resposta informada."})
		return
	}
	for questionID, value := range req.Answers {
		if value < 0 || value > 4 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Valor fora da escala (0-4) para a questão %q.", questionID),
			})
			return
		}
		// Unknown question ids are tolerated; the aggregation engine buckets
		// them under their literal section prefix.
		if !h.questionnaire.KnownQuestion(questionID) {
			h.log.Debug("Submission contains unknown question id", zap.String("question_id", questionID))
		}
	}

	// Link the response to a registered company when the free-text name
	// matches one; a miss leaves the response unlinked.
	var companyID *string
	company, err := repository.FindCompanyByName(c.Request.Context(), req.CompanyName)
	if err == nil {
		companyID = &company.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.log.Error("Failed to look up company for submission", zap.Error(err), zap.String("company_name", req.CompanyName))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar a resposta."})
		return
	}

	response, err := repository.InsertResponse(c.Request.Context(), repository.NewSurveyResponse{
		CompanyID:   companyID,
		CompanyName: req.CompanyName,
		Role:        req.Role,
		Department:  req.Department,
		Answers:     models.AnswerMap(req.Answers),
	})
	if err != nil {
		h.log.Error("Failed to insert survey response", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar a resposta."})
		return
	}

	h.log.Info("Survey response stored",
		zap.String("id", response.ID),
		zap.String("company_name", response.CompanyName),
		zap.Int("answer_count", len(response.Answers)),
	)
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": response.ID})
}

// Questionnaire handles GET /api/questionnaire, serving the static catalog
// to the collection UI.
func (h *ResponseHandler) Questionnaire(c *gin.Context) {
	c.JSON(http.StatusOK, h.questionnaire)
}
