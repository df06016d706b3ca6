package services

import (
	"context"
	"fmt"

	"github.com/sjperalta/ventas-api/internal/jobs"
	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
	"github.com/sjperalta/ventas-api/pkg/logger"
)

// Audited entity names
const (
	EntityOrder        = "Order"
	EntityPayment      = "Payment"
	EntityLedgerEntry  = "LedgerEntry"
	EntityDailyBalance = "DailyBalance"
	EntityExpense      = "Expense"
	EntitySalary       = "SalaryRecord"
	EntityInventory    = "Inventory"
)

type AuditService struct {
	repo   repository.AuditRepository
	worker *jobs.Worker
}

func NewAuditService(repo repository.AuditRepository, worker *jobs.Worker) *AuditService {
	return &AuditService{repo: repo, worker: worker}
}

// Record writes an audit entry after the business transaction committed.
// Failures are logged and never reach the caller.
func (s *AuditService) Record(actorID uint, action, entity string, entityID uint, details string) {
	entry := &models.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	name := fmt.Sprintf("audit:%s:%s:%d", action, entity, entityID)

	if s.worker == nil {
		if err := s.Log(context.Background(), entry); err != nil {
			logger.Error("failed to write audit log", "job", name, "error", err)
		}
		return
	}
	s.worker.EnqueueAsync(name, func(ctx context.Context) error {
		return s.Log(ctx, entry)
	})
}

// Log records an audit entry synchronously
func (s *AuditService) Log(ctx context.Context, entry *models.AuditLog) error {
	return s.repo.Create(ctx, entry)
}

// List retrieves audit logs, newest first
func (s *AuditService) List(ctx context.Context, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	logs, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, fail("list audit logs", err)
	}
	return logs, total, nil
}
