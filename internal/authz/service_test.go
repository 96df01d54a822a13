package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/products/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetAdminRoles(1, []string{"ops"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(1, "/api/v1/admin/products/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceAdmin(1, "/api/v1/admin/products/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/qr-codes", "GET"); err != nil {
		t.Fatalf("grant ops policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("finance", "/admin/rewards", "GET"); err != nil {
		t.Fatalf("grant finance policy failed: %v", err)
	}

	if err := svc.SetAdminRoles(2, []string{"ops"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:ops" {
		t.Fatalf("roles want [role:ops], got=%v", roles)
	}

	if err := svc.SetAdminRoles(2, []string{"finance"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err = svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:finance" {
		t.Fatalf("roles want [role:finance], got=%v", roles)
	}

	allow, err := svc.EnforceAdmin(2, "/admin/qr-codes", "GET")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}

	allow, err = svc.EnforceAdmin(2, "/admin/rewards", "GET")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/rewards/:id", want: "/admin/rewards/:id"},
		{in: "/admin/rewards/:id", want: "/admin/rewards/:id"},
		{in: "admin/rewards", want: "/admin/rewards"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:readonly_auditor": true,
		"role:operations":       true,
		"role:support":          true,
		"role:finance":          true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	if err := svc.SetAdminRoles(3, []string{"operations"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(3, "/admin/rewards", "GET")
	if err != nil {
		t.Fatalf("enforce inherited readonly failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected inherited readonly permission")
	}

	allow, err = svc.EnforceAdmin(3, "/admin/companies", "PUT")
	if err != nil {
		t.Fatalf("enforce operations write failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected operations write permission on companies")
	}

	allow, err = svc.EnforceAdmin(3, "/admin/rewards/1/status", "PUT")
	if err != nil {
		t.Fatalf("enforce cross-role write failed: %v", err)
	}
	if allow {
		t.Fatalf("operations must not hold finance write permission")
	}

	if err := svc.SetAdminRoles(4, []string{"readonly_auditor"}); err != nil {
		t.Fatalf("set auditor roles failed: %v", err)
	}
	allow, err = svc.EnforceAdmin(4, "/admin/companies", "PUT")
	if err != nil {
		t.Fatalf("enforce auditor write failed: %v", err)
	}
	if allow {
		t.Fatalf("readonly auditor must not write")
	}
}

func TestDeleteRoleProtectsBuiltins(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	if err := svc.DeleteRole("finance"); !errors.Is(err, ErrRoleImmutable) {
		t.Fatalf("delete builtin role want ErrRoleImmutable, got=%v", err)
	}
	if err := svc.DeleteRole("role:operations"); !errors.Is(err, ErrRoleImmutable) {
		t.Fatalf("delete prefixed builtin role want ErrRoleImmutable, got=%v", err)
	}

	if _, err := svc.EnsureRole("campaign_ops"); err != nil {
		t.Fatalf("ensure custom role failed: %v", err)
	}
	if err := svc.DeleteRole("campaign_ops"); err != nil {
		t.Fatalf("delete custom role failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	for _, role := range roles {
		if role == "role:campaign_ops" {
			t.Fatalf("custom role should be gone, got roles=%v", roles)
		}
	}
}

func TestIsBuiltinImmutable(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{role: "finance", want: true},
		{role: "role:finance", want: true},
		{role: "  support  ", want: true},
		{role: "campaign_ops", want: false},
		{role: "", want: false},
	}
	for _, item := range cases {
		if got := IsBuiltinImmutable(item.role); got != item.want {
			t.Fatalf("immutable check failed, role=%q want=%v got=%v", item.role, item.want, got)
		}
	}
}
