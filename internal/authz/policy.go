package authz

import (
	"github.com/google/uuid"

	"licentra/internal/model"
)

// Table identifies a protected relation.
type Table string

const (
	TableProfiles     Table = "profiles"
	TableUserRoles    Table = "user_roles"
	TableApplications Table = "license_applications"
	TableLicenses     Table = "licenses"
)

// Operation identifies a data-access operation.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Principal is the identity a request acts as. The zero value is the
// anonymous principal. It is built once per request from the verified
// session claims and passed explicitly down the call chain.
type Principal struct {
	ID            uuid.UUID
	Roles         []model.AppRole
	Authenticated bool
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == model.RoleAdmin {
			return true
		}
	}
	return false
}

// Row carries the attributes of the target row a decision depends on.
// For profiles the owner is the profile's own id; for user_roles it is
// the user the role is assigned to.
type Row struct {
	OwnerID uuid.UUID
}

// Decision is the outcome of a policy evaluation. When Allowed is true,
// Columns lists the columns the principal may read or write; nil means
// the full row.
type Decision struct {
	Allowed bool
	Columns []string
}

func deny() Decision {
	return Decision{}
}

func allowAll() Decision {
	return Decision{Allowed: true}
}

func allowColumns(cols []string) Decision {
	return Decision{Allowed: true, Columns: cols}
}

// PublicLicenseColumns is the only license data an anonymous verification
// may see. Internal id, owner identity, and the source application
// reference are never part of this set.
var PublicLicenseColumns = []string{
	"license_number",
	"license_type",
	"status",
	"business_name",
	"issue_date",
	"expiry_date",
	"integrity_hash",
}

// Decide evaluates the row policy for one principal, table, operation, and
// target row. It is pure and stateless: the same inputs always produce the
// same decision. Every repository access path consults it before touching
// the store.
//
// Identity provisioning (creating the profile and default user role for a
// brand-new identity) happens before a principal exists and is performed
// by the registration path itself, not through Decide.
func Decide(p Principal, table Table, op Operation, row Row) Decision {
	switch table {
	case TableProfiles:
		return decideProfiles(p, op, row)
	case TableUserRoles:
		return decideUserRoles(p, op, row)
	case TableApplications:
		return decideApplications(p, op, row)
	case TableLicenses:
		return decideLicenses(p, op, row)
	default:
		return deny()
	}
}

func decideProfiles(p Principal, op Operation, row Row) Decision {
	if !p.Authenticated {
		return deny()
	}
	switch op {
	case OpSelect:
		if p.IsAdmin() || p.ID == row.OwnerID {
			return allowAll()
		}
	case OpInsert, OpUpdate:
		if p.ID == row.OwnerID {
			return allowAll()
		}
	}
	return deny()
}

func decideUserRoles(p Principal, op Operation, row Row) Decision {
	if !p.Authenticated {
		return deny()
	}
	if p.IsAdmin() {
		return allowAll()
	}
	if op == OpSelect && p.ID == row.OwnerID {
		return allowAll()
	}
	return deny()
}

func decideApplications(p Principal, op Operation, row Row) Decision {
	if !p.Authenticated {
		return deny()
	}
	switch op {
	case OpSelect:
		if p.IsAdmin() || p.ID == row.OwnerID {
			return allowAll()
		}
	case OpInsert:
		// Owners may only file applications on their own behalf.
		if p.ID == row.OwnerID {
			return allowAll()
		}
	case OpUpdate:
		if p.IsAdmin() {
			return allowAll()
		}
	case OpDelete:
		// Applications are never deleted, not even by admins.
		return deny()
	}
	return deny()
}

func decideLicenses(p Principal, op Operation, row Row) Decision {
	if p.IsAdmin() {
		return allowAll()
	}
	switch op {
	case OpSelect:
		if p.Authenticated && p.ID == row.OwnerID {
			return allowAll()
		}
		// Anyone, including anonymous callers, may read the public
		// verification columns. Redaction is enforced here rather than
		// trusted to the caller.
		return allowColumns(PublicLicenseColumns)
	default:
		return deny()
	}
}
