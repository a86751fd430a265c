package handlers

import (
	"errors"
	"net/http"

	"github.com/raulvilera/projetoarp/internal/models"
	"github.com/raulvilera/projetoarp/internal/report"
	"github.com/raulvilera/projetoarp/internal/repository"
	"github.com/raulvilera/projetoarp/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompanyHandler manages the registered companies and their scoped reports.
type CompanyHandler struct {
	log           *zap.Logger
	questionnaire *models.Questionnaire
}

func NewCompanyHandler(log *zap.Logger, questionnaire *models.Questionnaire) *CompanyHandler {
	return &CompanyHandler{log: log, questionnaire: questionnaire}
}

type createCompanyRequest struct {
	Name    string   `json:"name" binding:"required"`
	CNPJ    string   `json:"cnpj" binding:"required"`
	City    string   `json:"city"`
	State   string   `json:"state"`
	Sectors []string `json:"sectors"`
}

// Create handles POST /api/companies.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos obrigatórios ausentes."})
		return
	}

	cnpj, ok := utils.NormalizeCNPJ(req.CNPJ)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CNPJ inválido."})
		return
	}

	company, err := repository.CreateCompany(c.Request.Context(), req.Name, cnpj, req.City, req.State, req.Sectors)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateCNPJ) {
			c.JSON(http.StatusConflict, gin.H{"error": "Já existe uma empresa com este CNPJ."})
			return
		}
		h.log.Error("Failed to create company", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao cadastrar a empresa."})
		return
	}

	h.log.Info("Company registered", zap.String("id", company.ID), zap.String("name", company.Name))
	c.JSON(http.StatusCreated, company)
}

// List handles GET /api/companies.
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := repository.ListCompanies(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list companies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar empresas."})
		return
	}
	c.JSON(http.StatusOK, companies)
}

// Get handles GET /api/companies/:id.
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := repository.GetCompanyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Empresa não encontrada."})
			return
		}
		h.log.Error("Failed to load company", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar a empresa."})
		return
	}
	c.JSON(http.StatusOK, company)
}

// Delete handles DELETE /api/companies/:id. Deleting a company cascades to
// its stored responses.
func (h *CompanyHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := repository.DeleteCompany(c.Request.Context(), id); err != nil {
		h.log.Error("Failed to delete company", zap.Error(err), zap.String("id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover a empresa."})
		return
	}
	h.log.Info("Company deleted", zap.String("id", id))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Report handles GET /api/companies/:id/report, the company-scoped risk
// report with recommendations.
func (h *CompanyHandler) Report(c *gin.Context) {
	company, err := repository.GetCompanyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Empresa não encontrada."})
			return
		}
		h.log.Error("Failed to load company for report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar a empresa."})
		return
	}

	responses, err := repository.ListResponsesByCompany(c.Request.Context(), company.ID)
	if err != nil {
		h.log.Error("Failed to list company responses", zap.Error(err), zap.String("company_id", company.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar respostas."})
		return
	}

	averages := report.ComputeSectionAverages(responses)
	c.JSON(http.StatusOK, gin.H{
		"company":        company,
		"totalResponses": len(responses),
		"sections":       report.Backfill(h.questionnaire, averages),
	})
}
