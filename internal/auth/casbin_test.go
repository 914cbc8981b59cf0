//go:build unit

package auth

import (
	"ir-portal/internal/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicies(t *testing.T) {
	e, err := NewEnforcer(nil)
	require.NoError(t, err)
	SeedDefaultPolicies(e, logger.Nop())

	testCases := []struct {
		sub, path, method string
		want              bool
	}{
		{SubjectAnonymous, "/api/articles", "GET", true},
		{SubjectAnonymous, "/api/articles/abc", "GET", true},
		{SubjectAnonymous, "/api/articles", "POST", false},
		{SubjectAnonymous, "/api/articles/abc", "PUT", false},
		{SubjectAnonymous, "/api/news/abc", "DELETE", false},
		{SubjectAnonymous, "/api/stats", "GET", false},
		{SubjectAnonymous, "/api/upload", "POST", false},
		{SubjectAnonymous, "/api/search", "GET", true},
		{SubjectAnonymous, "/api/tags/realism", "GET", true},
		{SubjectAnonymous, "/api/favorites", "DELETE", true},
		{SubjectAnonymous, "/api/favorites/toggle", "POST", true},
		{SubjectAnonymous, "/api/favorites/article/abc", "DELETE", true},
		{SubjectAnonymous, "/api/auth/login", "POST", true},
		{SubjectAnonymous, "/admin", "GET", false},
		{SubjectAnonymous, "/admin/articles", "GET", false},
		{SubjectAnonymous, "/admin/login", "GET", true},
		{SubjectAnonymous, "/auth/oidc/callback", "GET", true},
		{SubjectAdmin, "/api/articles", "POST", true},
		{SubjectAdmin, "/api/articles/abc", "DELETE", true},
		{SubjectAdmin, "/api/stats", "GET", true},
		{SubjectAdmin, "/api/articles", "PATCH", false},
		{SubjectAdmin, "/admin", "GET", true},
		{SubjectAdmin, "/admin/news", "GET", true},
		{SubjectAdmin, "/auth/oidc/login", "GET", true},
	}
	for _, tc := range testCases {
		t.Run(tc.sub+" "+tc.method+" "+tc.path, func(t *testing.T) {
			ok, err := e.Enforce(tc.sub, tc.path, tc.method)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestSeedDefaultPolicies_Idempotent(t *testing.T) {
	e, err := NewEnforcer(nil)
	require.NoError(t, err)

	SeedDefaultPolicies(e, logger.Nop())
	first, _ := e.GetPolicy()
	SeedDefaultPolicies(e, logger.Nop())
	second, _ := e.GetPolicy()

	assert.Equal(t, len(DefaultPolicies()), len(first))
	assert.Equal(t, first, second)
}
