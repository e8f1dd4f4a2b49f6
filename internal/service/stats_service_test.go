package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/minesafe-service/internal/domain"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

func TestDashboardStats(t *testing.T) {
	users := newFakeUserRepo()
	incidents := newFakeIncidentRepo()
	modules := newFakeModuleRepo()
	completions := newFakeCompletionRepo()
	svc := NewStatsService(users, incidents, modules, completions, zap.NewNop())
	ctx := context.Background()

	if err := modules.Create(ctx, &domain.TrainingModule{Title: "Ventilation basics", VideoURL: "v"}); err != nil {
		t.Fatalf("seed module: %v", err)
	}

	users.add(supervisorUser("s1"))
	users.add(minerUser("m1"))
	users.add(minerUser("m2"))
	users.add(minerUser("m3"))
	users.add(minerUser("m4"))

	seedIncident(t, incidents, "m1", domain.IncidentStatusPending)
	stale := seedIncident(t, incidents, "m2", domain.IncidentStatusResolved)
	incidents.incidents[stale.ID].ReportedAt = time.Now().AddDate(0, 0, -2)

	for _, userID := range []string{"m1", "m2"} {
		if err := completions.Create(ctx, &domain.ModuleCompletion{
			UserID:      userID,
			ModuleID:    1,
			Score:       100,
			CompletedAt: time.Now(),
		}); err != nil {
			t.Fatalf("seed completion: %v", err)
		}
	}

	stats, err := svc.Dashboard(ctx, supervisorUser("s1"))
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.ActiveMiners != 4 {
		t.Errorf("active miners = %d, want 4", stats.ActiveMiners)
	}
	if stats.EmergenciesToday != 1 {
		t.Errorf("emergencies today = %d, want 1", stats.EmergenciesToday)
	}
	if stats.TotalModules != 1 {
		t.Errorf("total modules = %d, want 1", stats.TotalModules)
	}
	if stats.TrainingCompletionRate != 50 {
		t.Errorf("completion rate = %d, want 50", stats.TrainingCompletionRate)
	}
}

func TestDashboardSupervisorOnly(t *testing.T) {
	svc := NewStatsService(newFakeUserRepo(), newFakeIncidentRepo(), newFakeModuleRepo(), newFakeCompletionRepo(), zap.NewNop())

	_, err := svc.Dashboard(context.Background(), minerUser("m1"))
	if apperrors.CodeOf(err) != "FORBIDDEN" {
		t.Errorf("err = %v, want FORBIDDEN", err)
	}
}
