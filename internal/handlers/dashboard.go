package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/raulvilera/projetoarp/internal/models"
	"github.com/raulvilera/projetoarp/internal/report"
	"github.com/raulvilera/projetoarp/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
)

// DashboardHandler computes and serves the aggregated risk views.
type DashboardHandler struct {
	log           *zap.Logger
	questionnaire *models.Questionnaire
}

func NewDashboardHandler(log *zap.Logger, questionnaire *models.Questionnaire) *DashboardHandler {
	return &DashboardHandler{log: log, questionnaire: questionnaire}
}

// Stats handles GET /api/dashboard/stats. It returns the raw per-section
// averages; sections without any answers are omitted here and backfilled by
// the report view.
func (h *DashboardHandler) Stats(c *gin.Context) {
	responses, err := repository.ListAllResponses(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list responses for stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar estatísticas."})
		return
	}

	c.JSON(http.StatusOK, report.ComputeSectionAverages(responses))
}

// Report handles GET /api/dashboard/report. All nine sections are present,
// with zero averages where no data exists and a recommendation wherever the
// average crosses the threshold.
func (h *DashboardHandler) Report(c *gin.Context) {
	responses, err := h.loadResponses(c)
	if err != nil {
		return // loadResponses already wrote the error
	}

	averages := report.ComputeSectionAverages(responses)
	c.JSON(http.StatusOK, gin.H{
		"totalResponses": len(responses),
		"sections":       report.Backfill(h.questionnaire, averages),
	})
}

// Chart handles GET /api/dashboard/chart, returning echarts bar-chart
// options the dashboard renders client-side.
func (h *DashboardHandler) Chart(c *gin.Context) {
	responses, err := h.loadResponses(c)
	if err != nil {
		return
	}

	averages := report.ComputeSectionAverages(responses)
	sections := report.Backfill(h.questionnaire, averages)

	chart := generateSectionBarChart(sections)
	optionsJSON, err := json.Marshal(chart.JSON())
	if err != nil {
		h.log.Error("Failed to marshal chart options", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar o gráfico."})
		return
	}

	c.Data(http.StatusOK, "application/json", optionsJSON)
}

// loadResponses reads either the whole response set or one company's slice
// when ?company_id= is present. On failure it writes the HTTP error itself.
func (h *DashboardHandler) loadResponses(c *gin.Context) ([]models.SurveyResponse, error) {
	companyID := c.Query("company_id")

	var responses []models.SurveyResponse
	var err error
	if companyID != "" {
		responses, err = repository.ListResponsesByCompany(c.Request.Context(), companyID)
	} else {
		responses, err = repository.ListAllResponses(c.Request.Context())
	}
	if err != nil {
		h.log.Error("Failed to list responses", zap.Error(err), zap.String("company_id", companyID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar respostas."})
		return nil, err
	}
	return responses, nil
}

func generateSectionBarChart(sections []report.SectionReport) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Médias de Riscos por Categoria",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Max:  4,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	titles := make([]string, 0, len(sections))
	items := make([]opts.BarData, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, s.Title)
		items = append(items, opts.BarData{Value: s.Average})
	}

	bar.SetXAxis(titles).AddSeries("Média", items)
	return bar
}
