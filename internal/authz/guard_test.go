package authz

import (
	"testing"

	"github.com/spec-kit/minesafe-service/internal/domain"
)

func TestAuthorizeTable(t *testing.T) {
	cases := []struct {
		action     Action
		supervisor bool
		miner      bool
	}{
		{ActionManageMiners, true, false},
		{ActionManageModules, true, false},
		{ActionStarModule, true, false},
		{ActionViewDashboardStats, true, false},
		{ActionViewLeaderboard, true, false},
		{ActionReportIncident, true, true},
		{ActionViewIncidents, true, true},
		{ActionTransitionIncident, true, false},
		{ActionUpdateIncidentMedia, true, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.action), func(t *testing.T) {
			if got := Authorize(domain.RoleSupervisor, tc.action).Allowed; got != tc.supervisor {
				t.Errorf("supervisor %s: got %v, want %v", tc.action, got, tc.supervisor)
			}
			if got := Authorize(domain.RoleMiner, tc.action).Allowed; got != tc.miner {
				t.Errorf("miner %s: got %v, want %v", tc.action, got, tc.miner)
			}
		})
	}
}

func TestAuthorizeDenyReason(t *testing.T) {
	decision := Authorize(domain.RoleMiner, ActionTransitionIncident)
	if decision.Allowed {
		t.Fatal("miner must not transition incidents")
	}
	if decision.Reason != DenyInsufficientRole {
		t.Errorf("reason = %s, want %s", decision.Reason, DenyInsufficientRole)
	}
}

func TestAuthorizeOwned(t *testing.T) {
	cases := []struct {
		name     string
		role     domain.Role
		action   Action
		callerID string
		ownerID  string
		allowed  bool
		reason   DenyReason
	}{
		{"supervisor views any incident", domain.RoleSupervisor, ActionViewIncidents, "s1", "m1", true, ""},
		{"miner views own incident", domain.RoleMiner, ActionViewIncidents, "m1", "m1", true, ""},
		{"miner views foreign incident", domain.RoleMiner, ActionViewIncidents, "m1", "m2", false, DenyNotOwner},
		{"miner updates own media", domain.RoleMiner, ActionUpdateIncidentMedia, "m1", "m1", true, ""},
		{"miner updates foreign media", domain.RoleMiner, ActionUpdateIncidentMedia, "m1", "m2", false, DenyNotOwner},
		{"supervisor updates any media", domain.RoleSupervisor, ActionUpdateIncidentMedia, "s1", "m1", true, ""},
		{"miner manages miners", domain.RoleMiner, ActionManageMiners, "m1", "m1", false, DenyInsufficientRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := AuthorizeOwned(tc.role, tc.action, tc.callerID, tc.ownerID)
			if decision.Allowed != tc.allowed {
				t.Errorf("allowed = %v, want %v", decision.Allowed, tc.allowed)
			}
			if !tc.allowed && decision.Reason != tc.reason {
				t.Errorf("reason = %s, want %s", decision.Reason, tc.reason)
			}
		})
	}
}

func TestOwnScoped(t *testing.T) {
	if !OwnScoped(domain.RoleMiner, ActionViewIncidents) {
		t.Error("miner incident listing must be scoped to own reports")
	}
	if OwnScoped(domain.RoleSupervisor, ActionViewIncidents) {
		t.Error("supervisor incident listing must not be scoped")
	}
}
