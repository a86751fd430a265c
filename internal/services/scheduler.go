package services

import (
	"context"
	"time"

	"github.com/raulvilera/projetoarp/internal/models"
	"github.com/raulvilera/projetoarp/internal/report"
	"github.com/raulvilera/projetoarp/internal/repository"

	"go.uber.org/zap"
)

// Scheduler periodically recomputes per-company section averages and sends
// an alert when any section crosses the critical threshold.
type Scheduler struct {
	log           *zap.Logger
	emailService  *EmailService
	questionnaire *models.Questionnaire
	interval      time.Duration
}

func NewScheduler(log *zap.Logger, emailService *EmailService, questionnaire *models.Questionnaire, interval time.Duration) *Scheduler {
	return &Scheduler{
		log:           log,
		emailService:  emailService,
		questionnaire: questionnaire,
		interval:      interval,
	}
}

// Start runs the scheduler in a goroutine.
func (s *Scheduler) Start() {
	s.log.Info("Starting risk alert scheduler", zap.Duration("interval", s.interval))
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			<-ticker.C
			s.runAlertCheck()
		}
	}()
}

func (s *Scheduler) runAlertCheck() {
	ctx := context.Background()
	s.log.Debug("Running risk alert check")

	companies, err := repository.ListCompanies(ctx)
	if err != nil {
		s.log.Error("Failed to list companies for alert check", zap.Error(err))
		return
	}

	users, err := repository.ListUsers(ctx)
	if err != nil {
		s.log.Error("Failed to list users for alert check", zap.Error(err))
		return
	}

	for _, company := range companies {
		responses, err := repository.ListResponsesByCompany(ctx, company.ID)
		if err != nil {
			s.log.Error("Failed to list responses for alert check", zap.Error(err), zap.String("company_id", company.ID))
			continue
		}
		if len(responses) == 0 {
			continue
		}

		critical := criticalSections(s.questionnaire, responses)
		if len(critical) == 0 {
			continue
		}

		s.log.Warn("Company has critical risk sections",
			zap.String("company", company.Name),
			zap.Int("critical_count", len(critical)),
		)
		for _, user := range users {
			go s.emailService.SendRiskAlertEmail(user, company, critical)
		}
	}
}

// criticalSections returns the backfilled sections whose recommendation is
// at critical severity.
func criticalSections(q *models.Questionnaire, responses []models.SurveyResponse) []report.SectionReport {
	sections := report.Backfill(q, report.ComputeSectionAverages(responses))

	var critical []report.SectionReport
	for _, section := range sections {
		if section.Recommendation != nil && section.Recommendation.Severity == report.SeverityCritical {
			critical = append(critical, section)
		}
	}
	return critical
}
