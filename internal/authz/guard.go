package authz

import (
	"github.com/spec-kit/minesafe-service/internal/domain"
)

// Action identifies a privileged operation checked by the guard.
type Action string

const (
	ActionManageMiners        Action = "manage_miners"
	ActionManageModules       Action = "manage_modules"
	ActionStarModule          Action = "star_module"
	ActionViewDashboardStats  Action = "view_dashboard_stats"
	ActionViewLeaderboard     Action = "view_leaderboard"
	ActionReportIncident      Action = "report_incident"
	ActionViewIncidents       Action = "view_incidents"
	ActionTransitionIncident  Action = "transition_incident"
	ActionUpdateIncidentMedia Action = "update_incident_media"
)

// DenyReason distinguishes why a request was refused. Both surface to the
// caller as the same forbidden response; operator logs record the reason.
type DenyReason string

const (
	DenyInsufficientRole DenyReason = "insufficient_role"
	DenyNotOwner         DenyReason = "not_resource_owner"
)

// Decision is the guard's verdict for one (role, action) pair.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// scope describes how an action is permitted for a role.
type scope int

const (
	denied scope = iota
	allowAll
	allowOwn
)

// rules is the authoritative permission table. Supervisors hold full
// authority; miners are limited to self-service on their own reports.
var rules = map[Action]map[domain.Role]scope{
	ActionManageMiners:        {domain.RoleSupervisor: allowAll, domain.RoleMiner: denied},
	ActionManageModules:       {domain.RoleSupervisor: allowAll, domain.RoleMiner: denied},
	ActionStarModule:          {domain.RoleSupervisor: allowAll, domain.RoleMiner: denied},
	ActionViewDashboardStats:  {domain.RoleSupervisor: allowAll, domain.RoleMiner: denied},
	ActionViewLeaderboard:     {domain.RoleSupervisor: allowAll, domain.RoleMiner: denied},
	ActionReportIncident:      {domain.RoleSupervisor: allowAll, domain.RoleMiner: allowAll},
	ActionViewIncidents:       {domain.RoleSupervisor: allowAll, domain.RoleMiner: allowOwn},
	ActionTransitionIncident:  {domain.RoleSupervisor: allowAll, domain.RoleMiner: denied},
	ActionUpdateIncidentMedia: {domain.RoleSupervisor: allowAll, domain.RoleMiner: allowOwn},
}

// Authorize decides whether a role may perform an action without reference
// to a specific resource. Ownership-scoped permissions count as allowed
// here; use AuthorizeOwned when a concrete resource owner is known.
func Authorize(role domain.Role, action Action) Decision {
	switch rules[action][role] {
	case allowAll, allowOwn:
		return Decision{Allowed: true}
	default:
		return Decision{Allowed: false, Reason: DenyInsufficientRole}
	}
}

// AuthorizeOwned decides an action against a specific resource owner. For
// ownership-scoped permissions the caller must be the owner.
func AuthorizeOwned(role domain.Role, action Action, callerID, ownerID string) Decision {
	switch rules[action][role] {
	case allowAll:
		return Decision{Allowed: true}
	case allowOwn:
		if callerID == ownerID {
			return Decision{Allowed: true}
		}
		return Decision{Allowed: false, Reason: DenyNotOwner}
	default:
		return Decision{Allowed: false, Reason: DenyInsufficientRole}
	}
}

// OwnScoped reports whether the role's permission for the action is
// limited to resources it owns. List endpoints use this to force filters.
func OwnScoped(role domain.Role, action Action) bool {
	return rules[action][role] == allowOwn
}
