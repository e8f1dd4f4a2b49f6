package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/minesafe-service/internal/domain"
	"github.com/spec-kit/minesafe-service/internal/events"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

func newIncidentFixture() (*IncidentService, *fakeIncidentRepo, *fakeDispatcher) {
	repo := newFakeIncidentRepo()
	dispatcher := &fakeDispatcher{}
	return NewIncidentService(repo, dispatcher, zap.NewNop()), repo, dispatcher
}

func seedIncident(t *testing.T, repo *fakeIncidentRepo, reporterID string, status domain.IncidentStatus) *domain.Incident {
	t.Helper()
	incident := &domain.Incident{
		ReporterID: reporterID,
		Severity:   domain.SeverityHigh,
		Issue:      "gas leak in shaft 3",
		Status:     status,
		ReportedAt: time.Now(),
	}
	if err := repo.Create(context.Background(), incident); err != nil {
		t.Fatalf("seed incident: %v", err)
	}
	return incident
}

func TestReportCreatesPendingIncident(t *testing.T) {
	svc, _, dispatcher := newIncidentFixture()
	miner := minerUser("m1")

	incident, err := svc.Report(context.Background(), miner, ReportInput{
		Severity: domain.SeverityCritical,
		Issue:    "  roof collapse near the east face  ",
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if incident.Status != domain.IncidentStatusPending {
		t.Errorf("status = %s, want PENDING", incident.Status)
	}
	if incident.ReporterID != "m1" {
		t.Errorf("reporter = %s, want m1", incident.ReporterID)
	}
	if incident.Issue != "roof collapse near the east face" {
		t.Errorf("issue not trimmed: %q", incident.Issue)
	}

	published := dispatcher.published()
	if len(published) != 1 || published[0].Type != events.EventIncidentReported {
		t.Fatalf("published = %+v, want one incident_reported event", published)
	}
}

func TestReportValidation(t *testing.T) {
	svc, _, _ := newIncidentFixture()
	miner := minerUser("m1")

	cases := []struct {
		name  string
		input ReportInput
	}{
		{"unknown severity", ReportInput{Severity: domain.Severity("EXTREME"), Issue: "fire"}},
		{"blank issue", ReportInput{Severity: domain.SeverityLow, Issue: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Report(context.Background(), miner, tc.input)
			if apperrors.CodeOf(err) != "VALIDATION_FAILED" {
				t.Errorf("err = %v, want VALIDATION_FAILED", err)
			}
		})
	}
}

func TestTransitionEdges(t *testing.T) {
	supervisor := supervisorUser("s1")

	cases := []struct {
		name string
		from domain.IncidentStatus
		to   domain.IncidentStatus
		ok   bool
	}{
		{"pending to resolving", domain.IncidentStatusPending, domain.IncidentStatusResolving, true},
		{"pending to false alarm", domain.IncidentStatusPending, domain.IncidentStatusFalseAlarm, true},
		{"resolving to resolved", domain.IncidentStatusResolving, domain.IncidentStatusResolved, true},
		{"pending straight to resolved", domain.IncidentStatusPending, domain.IncidentStatusResolved, false},
		{"resolving back to pending", domain.IncidentStatusResolving, domain.IncidentStatusPending, false},
		{"resolved is terminal", domain.IncidentStatusResolved, domain.IncidentStatusResolving, false},
		{"false alarm is terminal", domain.IncidentStatusFalseAlarm, domain.IncidentStatusPending, false},
		{"repeat transition", domain.IncidentStatusResolving, domain.IncidentStatusResolving, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newIncidentFixture()
			incident := seedIncident(t, repo, "m1", tc.from)

			updated, err := svc.Transition(context.Background(), supervisor, incident.ID, tc.to)
			if tc.ok {
				if err != nil {
					t.Fatalf("transition: %v", err)
				}
				if updated.Status != tc.to {
					t.Errorf("status = %s, want %s", updated.Status, tc.to)
				}
				return
			}
			if apperrors.CodeOf(err) != "ILLEGAL_TRANSITION" {
				t.Errorf("err = %v, want ILLEGAL_TRANSITION", err)
			}
			stored, _ := repo.GetByID(context.Background(), incident.ID)
			if stored.Status != tc.from {
				t.Errorf("stored status = %s, want unchanged %s", stored.Status, tc.from)
			}
		})
	}
}

func TestMinerCannotTransition(t *testing.T) {
	svc, repo, _ := newIncidentFixture()
	miner := minerUser("m1")
	supervisor := supervisorUser("s1")

	incident := seedIncident(t, repo, "m1", domain.IncidentStatusPending)

	if _, err := svc.Transition(context.Background(), supervisor, incident.ID, domain.IncidentStatusResolving); err != nil {
		t.Fatalf("supervisor transition: %v", err)
	}

	// Even the reporter cannot resolve their own incident.
	_, err := svc.Transition(context.Background(), miner, incident.ID, domain.IncidentStatusResolved)
	if apperrors.CodeOf(err) != "FORBIDDEN" {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}
	stored, _ := repo.GetByID(context.Background(), incident.ID)
	if stored.Status != domain.IncidentStatusResolving {
		t.Errorf("stored status = %s, want RESOLVING", stored.Status)
	}
}

func TestTransitionNotFound(t *testing.T) {
	svc, _, _ := newIncidentFixture()
	_, err := svc.Transition(context.Background(), supervisorUser("s1"), 404, domain.IncidentStatusResolving)
	if apperrors.CodeOf(err) != "NOT_FOUND" {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestTransitionRaceHasOneWinner(t *testing.T) {
	svc, repo, _ := newIncidentFixture()
	supervisorA := supervisorUser("s1")
	supervisorB := supervisorUser("s2")
	incident := seedIncident(t, repo, "m1", domain.IncidentStatusPending)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.Transition(context.Background(), supervisorA, incident.ID, domain.IncidentStatusResolving)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.Transition(context.Background(), supervisorB, incident.ID, domain.IncidentStatusFalseAlarm)
	}()
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case apperrors.CodeOf(err) == "ILLEGAL_TRANSITION":
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly one", wins)
	}

	stored, _ := repo.GetByID(context.Background(), incident.ID)
	if stored.Status != domain.IncidentStatusResolving && stored.Status != domain.IncidentStatusFalseAlarm {
		t.Errorf("stored status = %s, want the winner's target", stored.Status)
	}
}

func TestGetEnforcesReporterScope(t *testing.T) {
	svc, repo, _ := newIncidentFixture()
	incident := seedIncident(t, repo, "m1", domain.IncidentStatusPending)

	if _, err := svc.Get(context.Background(), minerUser("m1"), incident.ID); err != nil {
		t.Errorf("owner get: %v", err)
	}
	if _, err := svc.Get(context.Background(), supervisorUser("s1"), incident.ID); err != nil {
		t.Errorf("supervisor get: %v", err)
	}
	_, err := svc.Get(context.Background(), minerUser("m2"), incident.ID)
	if apperrors.CodeOf(err) != "FORBIDDEN" {
		t.Errorf("foreign miner get: err = %v, want FORBIDDEN", err)
	}
}

func TestListScopesMinersToOwnReports(t *testing.T) {
	svc, repo, _ := newIncidentFixture()
	seedIncident(t, repo, "m1", domain.IncidentStatusPending)
	seedIncident(t, repo, "m2", domain.IncidentStatusPending)

	// A miner asking for someone else's reports still only sees their own.
	other := "m2"
	incidents, err := svc.List(context.Background(), minerUser("m1"), IncidentListFilter{ReporterID: &other})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(incidents) != 1 || incidents[0].ReporterID != "m1" {
		t.Errorf("incidents = %+v, want only m1's report", incidents)
	}

	all, err := svc.List(context.Background(), supervisorUser("s1"), IncidentListFilter{})
	if err != nil {
		t.Fatalf("supervisor list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("supervisor sees %d incidents, want 2", len(all))
	}
}

func TestUpdateMedia(t *testing.T) {
	svc, repo, _ := newIncidentFixture()
	incident := seedIncident(t, repo, "m1", domain.IncidentStatusPending)

	if _, err := svc.UpdateMedia(context.Background(), minerUser("m1"), incident.ID, "s3://bucket/clip.mp4", domain.MediaStatusPending); err != nil {
		t.Fatalf("owner update: %v", err)
	}

	_, err := svc.UpdateMedia(context.Background(), minerUser("m2"), incident.ID, "s3://bucket/other.mp4", domain.MediaStatusUploaded)
	if apperrors.CodeOf(err) != "FORBIDDEN" {
		t.Errorf("foreign miner update: err = %v, want FORBIDDEN", err)
	}

	_, err = svc.UpdateMedia(context.Background(), minerUser("m1"), incident.ID, "s3://bucket/clip.mp4", domain.MediaStatus("LOST"))
	if apperrors.CodeOf(err) != "VALIDATION_FAILED" {
		t.Errorf("bad media status: err = %v, want VALIDATION_FAILED", err)
	}

	// Media has no transition discipline: any valid value may overwrite
	// any other, including FAILED back to UPLOADED.
	if _, err := svc.UpdateMedia(context.Background(), supervisorUser("s1"), incident.ID, "s3://bucket/clip.mp4", domain.MediaStatusFailed); err != nil {
		t.Fatalf("supervisor update: %v", err)
	}
	updated, err := svc.UpdateMedia(context.Background(), minerUser("m1"), incident.ID, "s3://bucket/clip-retry.mp4", domain.MediaStatusUploaded)
	if err != nil {
		t.Fatalf("overwrite after failure: %v", err)
	}
	if updated.MediaStatus == nil || *updated.MediaStatus != domain.MediaStatusUploaded {
		t.Errorf("media status = %v, want UPLOADED", updated.MediaStatus)
	}
	if updated.MediaURL == nil || *updated.MediaURL != "s3://bucket/clip-retry.mp4" {
		t.Errorf("media url = %v, want the retry upload", updated.MediaURL)
	}
}
