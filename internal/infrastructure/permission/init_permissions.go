package permission

import (
	"fmt"

	"github.com/casbin/casbin/v2"

	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// InitLicensingPermissions seeds the role policies for the licensing API.
// Tenant owners and admins manage seats; members can only read their own state.
func InitLicensingPermissions(enforcer *casbin.Enforcer, log logger.Interface) error {
	policies := [][]string{
		{"owner", "licenses", "read"},
		{"owner", "licenses", "write"},
		{"owner", "access", "read"},
		{"owner", "access", "write"},
		{"owner", "pool", "read"},
		{"owner", "pool", "write"},

		{"admin", "licenses", "read"},
		{"admin", "licenses", "write"},
		{"admin", "access", "read"},
		{"admin", "access", "write"},
		{"admin", "pool", "read"},

		{"member", "licenses", "read"},
		{"member", "access", "read"},
	}

	for _, policy := range policies {
		_, err := enforcer.AddPolicy(policy)
		if err != nil {
			log.Errorw("failed to add licensing permission policy",
				"error", err,
				"role", policy[0],
				"resource", policy[1],
				"action", policy[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
	}

	if err := enforcer.SavePolicy(); err != nil {
		log.Error("failed to save licensing permissions", "error", err)
		return fmt.Errorf("failed to save licensing permissions: %w", err)
	}

	log.Info("licensing permissions initialized successfully")
	return nil
}
