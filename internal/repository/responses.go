package repository

import (
	"context"
	"time"

	"github.com/raulvilera/projetoarp/internal/database"
	"github.com/raulvilera/projetoarp/internal/models"

	"github.com/google/uuid"
)

// NewSurveyResponse carries the caller-supplied fields of a submission.
// ID and SubmittedAt are assigned at insertion.
type NewSurveyResponse struct {
	CompanyID   *string
	CompanyName string
	Role        string
	Department  string
	Answers     models.AnswerMap
}

// InsertResponse persists one survey response. Every call inserts a new
// row; duplicate submissions are not deduplicated.
func InsertResponse(ctx context.Context, in NewSurveyResponse) (*models.SurveyResponse, error) {
	response := &models.SurveyResponse{
		ID:          uuid.NewString(),
		CompanyID:   in.CompanyID,
		CompanyName: in.CompanyName,
		Role:        in.Role,
		Department:  in.Department,
		Answers:     in.Answers,
		SubmittedAt: time.Now().UTC(),
	}
	result := database.DB.WithContext(ctx).Create(response)
	return response, result.Error
}

// ListAllResponses returns every stored response. The dashboard aggregation
// is always a whole-dataset scan, so no pagination is applied.
func ListAllResponses(ctx context.Context) ([]models.SurveyResponse, error) {
	var responses []models.SurveyResponse
	err := database.DB.WithContext(ctx).
		Order("submitted_at").
		Find(&responses).Error
	return responses, err
}

// ListResponsesByCompany returns the responses tied to a single company.
func ListResponsesByCompany(ctx context.Context, companyID string) ([]models.SurveyResponse, error) {
	var responses []models.SurveyResponse
	err := database.DB.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("submitted_at").
		Find(&responses).Error
	return responses, err
}

// CountResponses returns the total number of stored responses.
func CountResponses(ctx context.Context) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).
		Model(&models.SurveyResponse{}).
		Count(&count).Error
	return count, err
}

// DeleteResponsesByCompany removes every response tied to a company. Used
// when a company is deleted.
func DeleteResponsesByCompany(ctx context.Context, companyID string) error {
	return database.DB.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&models.SurveyResponse{}).Error
}
