package service

import (
	"context"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/internal/repository"
	"github.com/mansij47/Optiven-Backend/pkg/apperror"
)

// AuditService exposes the store's audit trail for admin review.
type AuditService interface {
	ListLogs(ctx context.Context, principal middleware.Principal, page, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListLogs(ctx context.Context, principal middleware.Principal, page, limit int) ([]model.AuditLog, int64, error) {
	logs, total, err := s.auditRepo.List(ctx, principal.StoreID, page, limit)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list audit logs", err)
	}
	return logs, total, nil
}
