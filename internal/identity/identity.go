package identity

import "strings"

// Role is a canonical job-title tag, or an unrecognized label kept verbatim.
type Role string

const (
	RoleSourcer          Role = "Sourcer"
	RoleRecruiter        Role = "Recruiter"
	RoleTAC              Role = "TAC"
	RoleDeliveryLead     Role = "DeliveryLead"
	RoleSDR              Role = "SDR"
	RoleBDM              Role = "BDM"
	RoleHeadOfTechnology Role = "HeadOfTechnology"
)

// Department owning a role.
type Department string

const (
	DepartmentRecruitment Department = "recruitment"
	DepartmentSales       Department = "sales"
)

// rule maps a lowercased label onto a canonical role.
type rule struct {
	match func(s string) bool
	role  Role
}

func contains(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

// roleRules is evaluated top to bottom; a label matching several rules takes
// the first one.
var roleRules = []rule{
	{match: contains("sourc"), role: RoleSourcer},
	{match: contains("rekrut", "recruit"), role: RoleRecruiter},
	{match: contains("tac"), role: RoleTAC},
	{match: func(s string) bool { return strings.Contains(s, "delivery") || s == "dl" }, role: RoleDeliveryLead},
	{match: contains("sdr"), role: RoleSDR},
	{match: contains("bdm"), role: RoleBDM},
	{match: contains("head", "hot"), role: RoleHeadOfTechnology},
}

var salesRoles = map[Role]bool{
	RoleSDR:              true,
	RoleBDM:              true,
	RoleHeadOfTechnology: true,
}

// NormalizeRole canonicalizes a free-text role label. Empty input defaults to
// Sourcer; labels matching no rule are returned unchanged.
func NormalizeRole(raw string) Role {
	if strings.TrimSpace(raw) == "" {
		return RoleSourcer
	}
	s := strings.ToLower(raw)
	for _, r := range roleRules {
		if r.match(s) {
			return r.role
		}
	}
	return Role(raw)
}

// DepartmentForRole derives the department of a role.
func DepartmentForRole(role Role) Department {
	if salesRoles[role] {
		return DepartmentSales
	}
	return DepartmentRecruitment
}

// Canonical reports whether role is one of the fixed tags.
func Canonical(role Role) bool {
	switch role {
	case RoleSourcer, RoleRecruiter, RoleTAC, RoleDeliveryLead, RoleSDR, RoleBDM, RoleHeadOfTechnology:
		return true
	}
	return false
}

// ParseDepartment accepts the department names used across the API.
func ParseDepartment(s string) (Department, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "recruitment", "rekrutacja", "body-leasing":
		return DepartmentRecruitment, true
	case "sales", "sprzedaz":
		return DepartmentSales, true
	}
	return "", false
}
