package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "operations",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/companies", Action: "*"},
				{Object: "/admin/companies/:id", Action: "*"},
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/qr-codes/generate", Action: "POST"},
				{Object: "/admin/qr-codes/generate-bulk", Action: "POST"},
				{Object: "/admin/qr-codes/generate-pdf", Action: "POST"},
				{Object: "/admin/qr-codes", Action: "GET"},
				{Object: "/admin/qr-codes/:code/image", Action: "GET"},
				{Object: "/admin/qr-batches", Action: "GET"},
				{Object: "/admin/upload", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "support",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/users", Action: "GET"},
				{Object: "/admin/users/:id", Action: "GET"},
				{Object: "/admin/users/:id/rewards", Action: "GET"},
				{Object: "/admin/user-login-logs", Action: "GET"},
				{Object: "/admin/rewards", Action: "GET"},
				{Object: "/admin/rewards/:id", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "finance",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/rewards", Action: "GET"},
				{Object: "/admin/rewards/:id", Action: "GET"},
				{Object: "/admin/rewards/:id/status", Action: "PUT"},
				{Object: "/admin/rewards/bulk-payment", Action: "POST"},
				{Object: "/admin/dashboard/overview", Action: "GET"},
				{Object: "/admin/dashboard/trends", Action: "GET"},
				{Object: "/admin/dashboard/top-products", Action: "GET"},
			},
			Immutable: true,
		},
	}
}

// IsBuiltinImmutable 判断角色是否为受保护的预置角色
func IsBuiltinImmutable(role string) bool {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range BuiltinRoleSeeds() {
		if !seed.Immutable {
			continue
		}
		if seedRole, seedErr := NormalizeRole(seed.Role); seedErr == nil && seedRole == normalized {
			return true
		}
	}
	return false
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor); err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
