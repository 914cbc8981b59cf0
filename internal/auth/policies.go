package auth

import (
	"fmt"
	"ir-portal/internal/logger"

	"github.com/casbin/casbin/v2"
)

// publicResources are readable by everyone, as lists and by id.
var publicResources = []string{"articles", "analyses", "news", "podcasts", "concepts", "resources", "modules"}

// DefaultPolicies returns the baseline rules: anonymous visitors read published content,
// keep favorites and may log in; admins may do anything under /api and /admin.
func DefaultPolicies() [][]string {
	policies := [][]string{}
	for _, r := range publicResources {
		policies = append(policies,
			[]string{SubjectAnonymous, "/api/" + r, "GET"},
			[]string{SubjectAnonymous, "/api/" + r + "/:id", "GET"},
		)
	}
	policies = append(policies, [][]string{
		{SubjectAnonymous, "/api/concepts/random", "GET"},
		{SubjectAnonymous, "/api/search", "GET"},
		{SubjectAnonymous, "/api/tags/:tag", "GET"},
		{SubjectAnonymous, "/api/regions", "GET"},
		{SubjectAnonymous, "/api/taxonomy", "GET"},
		{SubjectAnonymous, "/api/favorites", "^(GET|POST|DELETE)$"},
		{SubjectAnonymous, "/api/favorites/toggle", "POST"},
		{SubjectAnonymous, "/api/favorites/:type/:id", "DELETE"},
		{SubjectAnonymous, "/api/auth/session", "GET"},
		{SubjectAnonymous, "/api/auth/login", "POST"},
		{SubjectAnonymous, "/api/auth/logout", "POST"},
		{SubjectAnonymous, "/admin/login", "^(GET|POST)$"},
		{SubjectAnonymous, "/admin/logout", "POST"},
		{SubjectAnonymous, "/auth/oidc/*", "GET"},

		{SubjectAdmin, "/api/*", "^(GET|POST|PUT|DELETE)$"},
		{SubjectAdmin, "/admin", "GET"},
		{SubjectAdmin, "/admin/*", "^(GET|POST)$"},
	}...)
	return policies
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, so it is safe to run on every start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	for _, p := range DefaultPolicies() {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Admins inherit everything anonymous visitors may do.
	if has, _ := e.HasRoleForUser(SubjectAdmin, SubjectAnonymous); !has {
		if _, err := e.AddRoleForUser(SubjectAdmin, SubjectAnonymous); err != nil {
			log.Error(err, "Failed to add role 'admin' -> 'anonymous'")
		}
	}
	log.Info("Policy seeding complete.")
}
