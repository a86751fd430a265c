package repository

import (
	"context"

	"github.com/raulvilera/projetoarp/internal/database"
	"github.com/raulvilera/projetoarp/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func CreateUser(ctx context.Context, email, password, name, company string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     name,
		Company:  company,
	}
	result := database.DB.WithContext(ctx).Create(user)
	return user, result.Error
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, "email = ?", email)
	return &user, result.Error
}

func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, id)
	return &user, result.Error
}

func ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := database.DB.WithContext(ctx).Find(&users).Error
	return users, err
}
