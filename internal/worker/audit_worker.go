package worker

import (
	"github.com/spec-kit/fooddash/internal/service"
)

// StartAuditWorker subscribes the audit service to session transitions.
func StartAuditWorker(audit *service.AuditService, source service.EventSubscriber) {
	if audit == nil {
		return
	}
	audit.RegisterHandlers(source)
}
