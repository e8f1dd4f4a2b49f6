package worker

import (
	"github.com/spec-kit/minesafe-service/internal/service"
)

// StartAlertWorker registers incident alert handlers.
func StartAlertWorker(alertService *service.AlertService) {
	if alertService == nil {
		return
	}
	alertService.RegisterHandlers()
}
