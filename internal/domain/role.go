package domain

import "slices"

// Role is a user's position on the role ladder.
type Role string

const (
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleChief  Role = "chief"
	RoleBanned Role = "banned"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleChief, RoleBanned:
		return true
	default:
		return false
	}
}

// Operation identifies a role-restricted action.
type Operation string

const (
	OpBanUser           Operation = "user.ban"
	OpUnbanUser         Operation = "user.unban"
	OpPromoteToAdmin    Operation = "user.promote_admin"
	OpPromoteToChief    Operation = "user.promote_chief"
	OpDemoteAdminToUser Operation = "user.demote_admin"
	OpModerateQuiz      Operation = "quiz.moderate"
)

// Policy maps each restricted operation to the set of roles allowed to perform it.
type Policy map[Operation][]Role

// DefaultPolicy returns the platform's authorization policy.
func DefaultPolicy() Policy {
	return Policy{
		OpBanUser:           {RoleAdmin, RoleChief},
		OpUnbanUser:         {RoleAdmin, RoleChief},
		OpPromoteToAdmin:    {RoleChief},
		OpPromoteToChief:    {RoleChief},
		OpDemoteAdminToUser: {RoleChief},
		OpModerateQuiz:      {RoleAdmin, RoleChief},
	}
}

// Allows reports whether role may perform op. Unknown operations are denied.
func (p Policy) Allows(op Operation, role Role) bool {
	roles, ok := p[op]
	if !ok {
		return false
	}
	return slices.Contains(roles, role)
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   uint
	Nickname string
	Role     Role
}

// HasRole reports whether the principal holds any of the given roles.
func (p Principal) HasRole(roles ...Role) bool {
	return slices.Contains(roles, p.Role)
}
