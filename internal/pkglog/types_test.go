package pkglog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsCompleteEntry(t *testing.T) {
	e := Entry{
		Name:      "neovim",
		Manager:   "dnf",
		Action:    ActionInstall,
		Timestamp: time.Now(),
		Scope:     ScopeUser,
	}
	require.NoError(t, e.Validate())
}

func TestValidate_RejectsMissingFields(t *testing.T) {
	base := Entry{
		Name:      "neovim",
		Manager:   "dnf",
		Action:    ActionInstall,
		Timestamp: time.Now(),
		Scope:     ScopeUser,
	}

	tests := []struct {
		name   string
		mutate func(*Entry)
		field  string
	}{
		{"empty name", func(e *Entry) { e.Name = "" }, "name"},
		{"empty manager", func(e *Entry) { e.Manager = "" }, "manager"},
		{"unknown action", func(e *Entry) { e.Action = "upgrade" }, "action"},
		{"unknown scope", func(e *Entry) { e.Scope = "global" }, "scope"},
		{"zero timestamp", func(e *Entry) { e.Timestamp = time.Time{} }, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			tt.mutate(&e)
			err := e.Validate()
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestEqual_IgnoresTimestampLocation(t *testing.T) {
	utc := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("CEST", 2*60*60))

	a := Entry{Name: "ripgrep", Manager: "pacman", Action: ActionInstall, Timestamp: utc, Scope: ScopeUser}
	b := a
	b.Timestamp = offset

	assert.True(t, a.Equal(b))
}

func TestEqual_ComparesMetadata(t *testing.T) {
	now := time.Now()
	a := Entry{
		Name: "app.rpm", Manager: "download", Action: ActionInstall,
		Timestamp: now, Scope: ScopeUser,
		Metadata: Metadata{"path": "/home/u/Downloads/app.rpm", "size": int64(1024)},
	}
	b := a
	b.Metadata = Metadata{"path": "/home/u/Downloads/app.rpm", "size": int64(2048)}

	assert.False(t, a.Equal(b))
	b.Metadata["size"] = int64(1024)
	assert.True(t, a.Equal(b))
}
