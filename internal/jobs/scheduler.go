package jobs

import (
	"fmt"
	"log"

	"AqsatiSaaS/internal/logger"
	"AqsatiSaaS/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	overdueConfig := NewDefaultOverdueConfig()

	// Override schedule from services.yaml if provided
	if s.config != nil {
		if schedule, ok := s.config["overdue_schedule"].(string); ok && schedule != "" {
			overdueConfig.Schedule = schedule
		}
		if tz, ok := s.config["timezone"].(string); ok && tz != "" {
			overdueConfig.TimeZone = tz
		}
	}

	if err := RunOverdueScheduler(overdueConfig, s.db); err != nil {
		return fmt.Errorf("failed to start overdue scheduler: %v", err)
	}

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Cron service started with overdue scheduler")
	}
	log.Println("Cron service started — overdue check scheduled")
	return nil
}

func (s *CronService) Stop() error {
	log.Println("Stopping cron service...")
	return nil
}
