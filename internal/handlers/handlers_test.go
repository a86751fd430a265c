package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raulvilera/projetoarp/internal/config"
	"github.com/raulvilera/projetoarp/internal/database"
	"github.com/raulvilera/projetoarp/internal/models"
	"github.com/raulvilera/projetoarp/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) *models.Questionnaire {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.SurveyResponse{},
		&models.Subscription{},
	))
	database.DB = db

	config.Conf = &config.Config{}
	config.Conf.Payment.WebhookSecret = "test-webhook-secret"

	questionnaire, err := models.LoadQuestionnaire("../../config/questionnaire.yaml")
	require.NoError(t, err)
	return questionnaire
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmit_StoresResponse(t *testing.T) {
	questionnaire := setupTest(t)
	h := NewResponseHandler(zap.NewNop(), questionnaire)
	r := gin.New()
	r.POST("/api/responses", h.Submit)

	w := performJSON(t, r, http.MethodPost, "/api/responses", gin.H{
		"companyName": "Acme Ltda",
		"role":        "Analista",
		"department":  "Financeiro",
		"answers":     gin.H{"1.1": 4, "1.2": 2},
	})

	require.Equal(t, http.StatusCreated, w.Code)

	stored, err := repository.ListAllResponses(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, models.AnswerMap{"1.1": 4, "1.2": 2}, stored[0].Answers)
	assert.Nil(t, stored[0].CompanyID)
}

func TestSubmit_LinksRegisteredCompany(t *testing.T) {
	questionnaire := setupTest(t)
	company, err := repository.CreateCompany(context.Background(), "Acme Ltda", "11222333000181", "São Paulo", "SP", nil)
	require.NoError(t, err)

	h := NewResponseHandler(zap.NewNop(), questionnaire)
	r := gin.New()
	r.POST("/api/responses", h.Submit)

	w := performJSON(t, r, http.MethodPost, "/api/responses", gin.H{
		"companyName": "acme ltda",
		"role":        "Analista",
		"department":  "TI",
		"answers":     gin.H{"2.1": 1},
	})

	require.Equal(t, http.StatusCreated, w.Code)

	stored, err := repository.ListAllResponses(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].CompanyID)
	assert.Equal(t, company.ID, *stored[0].CompanyID)
}

func TestSubmit_RejectsOutOfRangeValues(t *testing.T) {
	questionnaire := setupTest(t)
	h := NewResponseHandler(zap.NewNop(), questionnaire)
	r := gin.New()
	r.POST("/api/responses", h.Submit)

	w := performJSON(t, r, http.MethodPost, "/api/responses", gin.H{
		"companyName": "Acme Ltda",
		"role":        "Analista",
		"department":  "TI",
		"answers":     gin.H{"1.1": 5},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmit_RejectsNonNumericValues(t *testing.T) {
	questionnaire := setupTest(t)
	h := NewResponseHandler(zap.NewNop(), questionnaire)
	r := gin.New()
	r.POST("/api/responses", h.Submit)

	w := performJSON(t, r, http.MethodPost, "/api/responses", gin.H{
		"companyName": "Acme Ltda",
		"role":        "Analista",
		"department":  "TI",
		"answers":     gin.H{"1.1": "sempre"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmit_RejectsMissingFields(t *testing.T) {
	questionnaire := setupTest(t)
	h := NewResponseHandler(zap.NewNop(), questionnaire)
	r := gin.New()
	r.POST("/api/responses", h.Submit)

	w := performJSON(t, r, http.MethodPost, "/api/responses", gin.H{
		"companyName": "Acme Ltda",
		"answers":     gin.H{"1.1": 1},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(t, r, http.MethodPost, "/api/responses", gin.H{
		"companyName": "Acme Ltda",
		"role":        "Analista",
		"department":  "TI",
		"answers":     gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStats_AggregatesStoredResponses(t *testing.T) {
	questionnaire := setupTest(t)
	ctx := context.Background()
	_, err := repository.InsertResponse(ctx, repository.NewSurveyResponse{
		CompanyName: "Acme Ltda", Role: "Analista", Department: "TI",
		Answers: models.AnswerMap{"1.1": 4, "1.2": 2},
	})
	require.NoError(t, err)
	_, err = repository.InsertResponse(ctx, repository.NewSurveyResponse{
		CompanyName: "Acme Ltda", Role: "Gerente", Department: "RH",
		Answers: models.AnswerMap{"1.1": 0},
	})
	require.NoError(t, err)

	h := NewDashboardHandler(zap.NewNop(), questionnaire)
	r := gin.New()
	r.GET("/api/dashboard/stats", h.Stats)

	w := performJSON(t, r, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats []struct {
		ID      string  `json:"id"`
		Average float64 `json:"average"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, "1", stats[0].ID)
	assert.Equal(t, 2.00, stats[0].Average)
}

func TestStats_EmptyDataset(t *testing.T) {
	questionnaire := setupTest(t)
	h := NewDashboardHandler(zap.NewNop(), questionnaire)
	r := gin.New()
	r.GET("/api/dashboard/stats", h.Stats)

	w := performJSON(t, r, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestReport_BackfillsAllSections(t *testing.T) {
	questionnaire := setupTest(t)
	_, err := repository.InsertResponse(context.Background(), repository.NewSurveyResponse{
		CompanyName: "Acme Ltda", Role: "Analista", Department: "TI",
		Answers: models.AnswerMap{"3.5": 4, "3.6": 4},
	})
	require.NoError(t, err)

	h := NewDashboardHandler(zap.NewNop(), questionnaire)
	r := gin.New()
	r.GET("/api/dashboard/report", h.Report)

	w := performJSON(t, r, http.MethodGet, "/api/dashboard/report", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		TotalResponses int `json:"totalResponses"`
		Sections       []struct {
			ID             int     `json:"id"`
			Title          string  `json:"title"`
			Average        float64 `json:"average"`
			Recommendation *struct {
				Severity string   `json:"severity"`
				Actions  []string `json:"actions"`
			} `json:"recommendation"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.TotalResponses)
	require.Len(t, body.Sections, 9)

	recognition := body.Sections[2]
	assert.Equal(t, 3, recognition.ID)
	assert.Equal(t, 4.00, recognition.Average)
	require.NotNil(t, recognition.Recommendation)
	assert.Equal(t, "Crítico", recognition.Recommendation.Severity)
	assert.Len(t, recognition.Recommendation.Actions, 3)

	// Sections with no data are present with zero averages.
	assert.Equal(t, 0.00, body.Sections[0].Average)
	assert.Nil(t, body.Sections[0].Recommendation)
}

func TestChart_ReturnsEchartsOptions(t *testing.T) {
	questionnaire := setupTest(t)
	h := NewDashboardHandler(zap.NewNop(), questionnaire)
	r := gin.New()
	r.GET("/api/dashboard/chart", h.Chart)

	w := performJSON(t, r, http.MethodGet, "/api/dashboard/chart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var options map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &options))
	assert.Contains(t, options, "series")
	assert.Contains(t, options, "xAxis")
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhook_UpdatesSubscription(t *testing.T) {
	setupTest(t)
	ctx := context.Background()
	user, err := repository.CreateUser(ctx, "ana@example.com", "s3nha-f0rte", "Ana", "Acme Ltda")
	require.NoError(t, err)

	h := NewSubscriptionHandler(zap.NewNop())
	r := gin.New()
	r.POST("/api/webhooks/payment", h.Webhook)

	endsAt := time.Now().Add(30 * 24 * time.Hour).UTC()
	payload, err := json.Marshal(gin.H{
		"event":           "subscription.activated",
		"subscription_id": "sub-123",
		"user_email":      "ana@example.com",
		"plan_id":         "mensal",
		"status":          "active",
		"ends_at":         endsAt.Format(time.RFC3339),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payment", bytes.NewReader(payload))
	req.Header.Set(SignatureHeader, signBody("test-webhook-secret", payload))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	active, err := repository.HasActiveSubscription(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	setupTest(t)
	ctx := context.Background()
	user, err := repository.CreateUser(ctx, "ana@example.com", "s3nha-f0rte", "Ana", "Acme Ltda")
	require.NoError(t, err)

	h := NewSubscriptionHandler(zap.NewNop())
	r := gin.New()
	r.POST("/api/webhooks/payment", h.Webhook)

	payload := []byte(`{"subscription_id":"sub-123","user_email":"ana@example.com","status":"active"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payment", bytes.NewReader(payload))
	req.Header.Set(SignatureHeader, "deadbeef")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	active, err := repository.HasActiveSubscription(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestWebhook_RejectsMissingSignature(t *testing.T) {
	setupTest(t)

	h := NewSubscriptionHandler(zap.NewNop())
	r := gin.New()
	r.POST("/api/webhooks/payment", h.Webhook)

	payload := []byte(`{"subscription_id":"sub-123","user_email":"ana@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payment", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCompanies_CreateListDelete(t *testing.T) {
	questionnaire := setupTest(t)
	h := NewCompanyHandler(zap.NewNop(), questionnaire)
	r := gin.New()
	r.POST("/api/companies", h.Create)
	r.GET("/api/companies", h.List)
	r.DELETE("/api/companies/:id", h.Delete)

	w := performJSON(t, r, http.MethodPost, "/api/companies", gin.H{
		"name":    "Acme Ltda",
		"cnpj":    "11.222.333/0001-81",
		"city":    "São Paulo",
		"state":   "SP",
		"sectors": []string{"RH", "TI"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "11222333000181", created.CNPJ)

	// Duplicate CNPJ, different formatting.
	w = performJSON(t, r, http.MethodPost, "/api/companies", gin.H{
		"name": "Outra",
		"cnpj": "11222333000181",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Invalid check digits.
	w = performJSON(t, r, http.MethodPost, "/api/companies", gin.H{
		"name": "Inválida",
		"cnpj": "11.222.333/0001-82",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(t, r, http.MethodGet, "/api/companies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	w = performJSON(t, r, http.MethodDelete, "/api/companies/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCompanyReport_ScopedToCompany(t *testing.T) {
	questionnaire := setupTest(t)
	ctx := context.Background()
	company, err := repository.CreateCompany(ctx, "Acme Ltda", "11222333000181", "São Paulo", "SP", nil)
	require.NoError(t, err)

	_, err = repository.InsertResponse(ctx, repository.NewSurveyResponse{
		CompanyID: &company.ID, CompanyName: company.Name,
		Role: "Analista", Department: "TI",
		Answers: models.AnswerMap{"9.1": 1},
	})
	require.NoError(t, err)
	// A response from an unlinked company must not leak into the report.
	_, err = repository.InsertResponse(ctx, repository.NewSurveyResponse{
		CompanyName: "Outra", Role: "Gerente", Department: "RH",
		Answers: models.AnswerMap{"9.1": 4},
	})
	require.NoError(t, err)

	h := NewCompanyHandler(zap.NewNop(), questionnaire)
	r := gin.New()
	r.GET("/api/companies/:id/report", h.Report)

	w := performJSON(t, r, http.MethodGet, "/api/companies/"+company.ID+"/report", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		TotalResponses int `json:"totalResponses"`
		Sections       []struct {
			ID      int     `json:"id"`
			Average float64 `json:"average"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.TotalResponses)
	require.Len(t, body.Sections, 9)
	assert.Equal(t, 1.00, body.Sections[8].Average)
}
