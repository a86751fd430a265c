package services

import (
	"fmt"

	"github.com/raulvilera/projetoarp/internal/models"
	"github.com/raulvilera/projetoarp/internal/report"

	"go.uber.org/zap"
)

// EmailService is a placeholder for a real email sending service.
type EmailService struct {
	log *zap.Logger
}

func NewEmailService(log *zap.Logger) *EmailService {
	return &EmailService{log: log}
}

// SendWelcomeEmail simulates sending the account welcome email.
func (s *EmailService) SendWelcomeEmail(user models.User) {
	s.log.Info("Sending welcome email",
		zap.String("to", user.Email),
		zap.String("name", user.Name),
	)
	// In a real deployment this would render the HTML welcome template and
	// send it through an SMTP client such as go-mail.
	fmt.Printf("--- SIMULATING EMAIL ---\nTo: %s\nSubject: Bem-vindo ao DRPS Manager\nOlá %s,\nSua conta está ativa. Cadastre sua primeira empresa e gere o link de coleta.\n\n", user.Email, user.Name)
}

// SendRiskAlertEmail simulates alerting a consultant that one or more
// sections of a company's assessment crossed the critical threshold.
func (s *EmailService) SendRiskAlertEmail(user models.User, company models.Company, critical []report.SectionReport) {
	titles := make([]string, 0, len(critical))
	for _, section := range critical {
		titles = append(titles, fmt.Sprintf("%s (média %.2f)", section.Title, section.Average))
	}
	s.log.Info("Sending risk alert email",
		zap.String("to", user.Email),
		zap.String("company", company.Name),
		zap.Strings("critical_sections", titles),
	)
	fmt.Printf("--- SIMULATING EMAIL ---\nTo: %s\nSubject: Alerta de risco crítico - %s\nAs seguintes categorias atingiram nível crítico: %v\n\n", user.Email, company.Name, titles)
}
