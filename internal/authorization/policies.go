package authorization

import (
	"github.com/casbin/casbin/v2"
)

// seedPolicies installs the role capability matrix. Policies are
// domain-wildcarded so a single seed serves every organization; the
// grouping rules added at enforce time scope users to their org.
func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Admin: full control over every object.
		{"role:admin", "*", "*", "*"},

		// Manager: read everything, mutate bookkeeping objects and
		// settings. No organization delete, no role administration.
		{"role:manager", "*", "*", ActionRead},
		{"role:manager", "*", ObjectBook, ActionWrite},
		{"role:manager", "*", ObjectBook, ActionDelete},
		{"role:manager", "*", ObjectAccount, ActionWrite},
		{"role:manager", "*", ObjectAccount, ActionDelete},
		{"role:manager", "*", ObjectCommodity, ActionWrite},
		{"role:manager", "*", ObjectCommodity, ActionDelete},
		{"role:manager", "*", ObjectTax, ActionWrite},
		{"role:manager", "*", ObjectTax, ActionDelete},
		{"role:manager", "*", ObjectSettings, ActionWrite},

		// Accountant: read everything, mutate bookkeeping objects only.
		{"role:accountant", "*", "*", ActionRead},
		{"role:accountant", "*", ObjectBook, ActionWrite},
		{"role:accountant", "*", ObjectAccount, ActionWrite},
		{"role:accountant", "*", ObjectCommodity, ActionWrite},
		{"role:accountant", "*", ObjectTax, ActionWrite},

		// Viewer: read-only.
		{"role:viewer", "*", "*", ActionRead},
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
