package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

func withEuid(t *testing.T, euid int) {
	t.Helper()
	orig := Euid
	Euid = func() int { return euid }
	t.Cleanup(func() { Euid = orig })
}

func TestResolveScope_DefaultsToUser(t *testing.T) {
	withEuid(t, 1000)

	scope, err := ResolveScope("", &Config{})
	require.NoError(t, err)
	assert.Equal(t, pkglog.ScopeUser, scope)
}

func TestResolveScope_FlagOverridesConfig(t *testing.T) {
	withEuid(t, 0)

	scope, err := ResolveScope("system", &Config{Scope: "user"})
	require.NoError(t, err)
	assert.Equal(t, pkglog.ScopeSystem, scope)
}

func TestResolveScope_SystemRequiresPrivilege(t *testing.T) {
	withEuid(t, 1000)

	_, err := ResolveScope("system", Default())
	require.Error(t, err)

	var se *ScopeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, pkglog.ScopeSystem, se.Requested)
}

func TestResolveScope_SystemAllowedForRoot(t *testing.T) {
	withEuid(t, 0)

	scope, err := ResolveScope("", &Config{Scope: "system"})
	require.NoError(t, err)
	assert.Equal(t, pkglog.ScopeSystem, scope)
}

func TestResolveScope_RejectsUnknown(t *testing.T) {
	withEuid(t, 1000)

	_, err := ResolveScope("galaxy", Default())
	require.Error(t, err)
}
