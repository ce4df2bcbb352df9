package rbac

import "testing"

func TestRoleActionTable(t *testing.T) {
	tests := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleProfessional, ActionView, true},
		{RoleProfessional, ActionComment, true},
		{RoleProfessional, ActionManageSections, true},
		{RoleProfessional, ActionManageItems, true},
		{RoleProfessional, ActionReact, false},
		{RoleClient, ActionView, true},
		{RoleClient, ActionComment, true},
		{RoleClient, ActionReact, true},
		{RoleClient, ActionManageSections, false},
		{RoleClient, ActionManageItems, false},
		{Role("admin"), ActionView, false},
		{Role(""), ActionComment, false},
	}

	for _, tc := range tests {
		if got := Can(tc.role, tc.action); got != tc.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if Normalize("professional") != RoleProfessional {
		t.Fatalf("professional should normalize to itself")
	}
	if Normalize("client") != RoleClient {
		t.Fatalf("client should normalize to itself")
	}
	if Normalize("") != RoleClient {
		t.Fatalf("unknown roles fall back to client")
	}
	if Normalize("superuser") != RoleClient {
		t.Fatalf("unknown roles fall back to client")
	}
}
