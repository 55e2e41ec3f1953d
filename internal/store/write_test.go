package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/P-R-E-Z/prez-pkglog/internal/pkglog"
)

func TestWriteBoth_RollsBackFirstFormatOnSecondFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, installEntry("first", "dnf", time.Now().Truncate(time.Second))))
	priorJSON, err := os.ReadFile(s.JSONPath())
	require.NoError(t, err)

	// Make the table-file rename impossible.
	require.NoError(t, os.Remove(s.TOMLPath()))
	require.NoError(t, os.Mkdir(s.TOMLPath(), 0o755))

	err = s.Append(ctx, installEntry("second", "dnf", time.Now().Truncate(time.Second)))
	require.Error(t, err)

	// The structured file was rolled back to its prior durable state.
	afterJSON, readErr := os.ReadFile(s.JSONPath())
	require.NoError(t, readErr)
	assert.Equal(t, priorJSON, afterJSON)
}

func TestAppend_InterruptedWriterLeavesDurableFileUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, installEntry("stable", "dnf", time.Now().Truncate(time.Second))))
	prior, err := os.ReadFile(s.JSONPath())
	require.NoError(t, err)

	// Simulate a writer that crashed after producing its temp file but
	// before the rename.
	orphan := filepath.Join(s.Dir(), ".packages.json.tmp-crashed")
	require.NoError(t, os.WriteFile(orphan, []byte(`[{"partial`), 0o644))

	after, err := os.ReadFile(s.JSONPath())
	require.NoError(t, err)
	assert.Equal(t, prior, after, "durable file must be byte-identical")

	// The orphaned temp file does not disturb later operations.
	entries, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	require.NoError(t, s.Append(ctx, installEntry("next", "dnf", time.Now().Truncate(time.Second))))
}

func TestSelfHeal_CorruptedTableFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(ctx, installEntry("alpha", "dnf", base)))
	require.NoError(t, s.Append(ctx, installEntry("bravo", "dnf", base.Add(time.Minute))))

	require.NoError(t, os.WriteFile(s.TOMLPath(), []byte("### corrupted ["), 0o644))

	// Reads survive on the valid structured file.
	entries, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// The next append rewrites both files from the valid source.
	require.NoError(t, s.Append(ctx, installEntry("charlie", "dnf", base.Add(2*time.Minute))))

	tomlData, err := os.ReadFile(s.TOMLPath())
	require.NoError(t, err)
	fromTOML, anomalies, err := decodeTOML(tomlData)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
	require.Len(t, fromTOML, 3)
	assert.Equal(t, "alpha", fromTOML[0].Name)
	assert.Equal(t, "charlie", fromTOML[2].Name)
}

func TestSelfHeal_CorruptedStructuredFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(ctx, installEntry("alpha", "dnf", base)))

	require.NoError(t, os.WriteFile(s.JSONPath(), []byte("{ not an array"), 0o644))

	entries, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alpha", entries[0].Name)

	require.NoError(t, s.Append(ctx, installEntry("bravo", "dnf", base.Add(time.Minute))))

	jsonData, err := os.ReadFile(s.JSONPath())
	require.NoError(t, err)
	fromJSON, _, err := decodeJSON(jsonData)
	require.NoError(t, err)
	require.Len(t, fromJSON, 2)
	assert.Equal(t, "alpha", fromJSON[0].Name)
	assert.Equal(t, "bravo", fromJSON[1].Name)
}

func TestReadAll_BothFilesCorruptFails(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, os.WriteFile(s.JSONPath(), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(s.TOMLPath(), []byte("[["), 0o644))

	_, err := s.ReadAll(context.Background())
	require.Error(t, err)
	assert.True(t, IsCodecError(err))
}

func TestAppend_LockTimeout(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(pkglog.ScopeUser, dir, WithLockTimeout(150*time.Millisecond))
	require.NoError(t, err)

	// An unrelated holder keeps the scope lock for the whole test.
	holder := flock.New(filepath.Join(dir, lockFileName))
	require.NoError(t, holder.Lock())
	defer holder.Unlock()

	err = s.Append(context.Background(), installEntry("blocked", "dnf", time.Now().Truncate(time.Second)))
	require.Error(t, err)
	assert.True(t, IsLockTimeout(err))

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Retryable())
}

func TestConcurrentAppends_NoLostRecords(t *testing.T) {
	dir := t.TempDir()
	const writers = 4
	const perWriter = 5

	// Each writer gets its own Store on the same directory, modeling
	// independent processes contending on one scope.
	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			s, err := Open(pkglog.ScopeUser, dir, WithLockTimeout(10*time.Second))
			if err != nil {
				errs <- err
				return
			}
			for i := 0; i < perWriter; i++ {
				e := installEntry(fmt.Sprintf("pkg-%d-%d", w, i), "dnf", base.Add(time.Duration(w*perWriter+i)*time.Second))
				if err := s.Append(context.Background(), e); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	s, err := Open(pkglog.ScopeUser, dir)
	require.NoError(t, err)
	entries, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, writers*perWriter)

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		assert.False(t, seen[e.Name], "duplicate record %s", e.Name)
		seen[e.Name] = true
	}

	// Both formats carry the identical final sequence.
	tomlData, err := os.ReadFile(s.TOMLPath())
	require.NoError(t, err)
	fromTOML, _, err := decodeTOML(tomlData)
	require.NoError(t, err)
	assert.Len(t, fromTOML, writers*perWriter)
}
