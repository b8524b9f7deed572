package identity

import "testing"

func TestNormalizeRole_Rules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Role
	}{
		{"", RoleSourcer},
		{"   ", RoleSourcer},
		{"sourcer", RoleSourcer},
		{"Senior Sourcing Partner", RoleSourcer},
		{"Rekruter", RoleRecruiter},
		{"IT Recruiter", RoleRecruiter},
		{"TAC", RoleTAC},
		{"Delivery Lead", RoleDeliveryLead},
		{"DL", RoleDeliveryLead},
		{"dl", RoleDeliveryLead},
		{"SDR", RoleSDR},
		{"bdm", RoleBDM},
		{"Head of Technology", RoleHeadOfTechnology},
		{"HoT", RoleHeadOfTechnology},
		// "contact" contains "tac", which wins over later rules.
		{"Contact Head", RoleTAC},
		// "recruitment sourcer" matches sourc first.
		{"recruitment sourcer", RoleSourcer},
		{"Office Manager", Role("Office Manager")},
	}
	for _, tc := range cases {
		if got := NormalizeRole(tc.in); got != tc.want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRole_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", "sourcer", "Rekruter", "recruiter", "TAC", "delivery lead", "dl",
		"SDR", "BDM", "head", "hot", "Office Manager", "  padded  ", "Księgowa",
		"Sourcer", "Recruiter", "DeliveryLead", "HeadOfTechnology",
	}
	for _, in := range inputs {
		once := NormalizeRole(in)
		twice := NormalizeRole(string(once))
		if once != twice {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeRole_UnknownPassThroughIsRecruitment(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Office Manager", "Księgowa", "CEO"} {
		role := NormalizeRole(in)
		if string(role) != in {
			t.Fatalf("unknown role %q changed to %q", in, role)
		}
		if Canonical(role) {
			t.Fatalf("unknown role %q reported canonical", in)
		}
		if dep := DepartmentForRole(role); dep != DepartmentRecruitment {
			t.Fatalf("unknown role %q mapped to %q", in, dep)
		}
	}
}

func TestDepartmentForRole(t *testing.T) {
	t.Parallel()

	sales := []Role{RoleSDR, RoleBDM, RoleHeadOfTechnology}
	for _, r := range sales {
		if DepartmentForRole(r) != DepartmentSales {
			t.Fatalf("%s should be sales", r)
		}
	}
	recruitment := []Role{RoleSourcer, RoleRecruiter, RoleTAC, RoleDeliveryLead}
	for _, r := range recruitment {
		if DepartmentForRole(r) != DepartmentRecruitment {
			t.Fatalf("%s should be recruitment", r)
		}
	}
}
