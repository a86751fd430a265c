package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/raulvilera/projetoarp/internal/database"
	"github.com/raulvilera/projetoarp/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrDuplicateCNPJ is returned when a company with the same CNPJ already exists.
var ErrDuplicateCNPJ = errors.New("a company with this CNPJ is already registered")

// CreateCompany registers a new company. CNPJs are unique.
func CreateCompany(ctx context.Context, name, cnpj, city, state string, sectors []string) (*models.Company, error) {
	var existing models.Company
	err := database.DB.WithContext(ctx).Where("cnpj = ?", cnpj).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateCNPJ
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	company := &models.Company{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(name),
		CNPJ:    cnpj,
		City:    city,
		State:   state,
		Sectors: pq.StringArray(sectors),
	}
	result := database.DB.WithContext(ctx).Create(company)
	return company, result.Error
}

// GetCompanyByID returns the company with the given id.
func GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	err := database.DB.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// FindCompanyByName matches a company by name, case-insensitively. Survey
// submissions identify the company by free-text name, so a miss is normal
// and leaves the response unlinked.
func FindCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	err := database.DB.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// ListCompanies returns all registered companies, most recent first.
func ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	err := database.DB.WithContext(ctx).
		Order("created_at DESC").
		Find(&companies).Error
	return companies, err
}

// DeleteCompany removes a company and cascades to its responses.
func DeleteCompany(ctx context.Context, id string) error {
	if err := DeleteResponsesByCompany(ctx, id); err != nil {
		return err
	}
	return database.DB.WithContext(ctx).Delete(&models.Company{}, "id = ?", id).Error
}
