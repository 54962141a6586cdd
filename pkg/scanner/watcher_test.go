package scanner

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
)

func TestWatcher_RescansAfterChange(t *testing.T) {
	root := testProject(t)
	store := loadedStore(t, root)
	sc := NewScanner(nil)
	t.Cleanup(sc.Close)
	runScan(t, root, store)

	w, err := NewWatcher(sc, store, root, DefaultScanConfig(), nil)
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	reports := make(chan *Report, 4)
	w.OnScan = func(r *Report) { reports <- r }

	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Stop() })

	writeFile(t, root, "components/new-badge.js", "/**\n * Badge.\n */\nclass NewBadge {}")

	select {
	case report := <-reports:
		assert.Equal(t, 1, report.Added)
	case <-time.After(5 * time.Second):
		t.Fatal("no rescan after file change")
	}

	_, ok := store.Get("new-badge")
	assert.True(t, ok)
}

func TestWatcher_OverlappingRescansSerialize(t *testing.T) {
	root := testProject(t)
	store := loadedStore(t, root)
	sc := NewScanner(nil)
	t.Cleanup(sc.Close)
	runScan(t, root, store)

	w, err := NewWatcher(sc, store, root, DefaultScanConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	// Fire rescans from several goroutines at once, as overlapping
	// debounce timers would. The store's maps must never see two
	// writers.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.rescan()
		}()
	}
	wg.Wait()

	manifest := store.Manifest()
	assert.Equal(t, len(manifest.Components), manifest.Stats.TotalComponents)
}

func TestWatcher_StartFailsWithNoLayerDirs(t *testing.T) {
	root := t.TempDir()
	store := registry.NewStore(filepath.Join(root, registry.DefaultManifestPath), nil)
	require.NoError(t, store.Load())
	sc := NewScanner(nil)
	t.Cleanup(sc.Close)

	w, err := NewWatcher(sc, store, root, DefaultScanConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	assert.Error(t, w.Start())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	root := testProject(t)
	store := loadedStore(t, root)
	sc := NewScanner(nil)
	t.Cleanup(sc.Close)

	w, err := NewWatcher(sc, store, root, DefaultScanConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
