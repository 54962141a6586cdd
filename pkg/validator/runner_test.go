package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
)

func TestRunner_CleanProjectPasses(t *testing.T) {
	root, cfg := cleanProject(t)
	store := storeWithRecords(t, root,
		record("user-card", "components/user-card.js", registry.LayerComponent),
	)

	runner, err := NewRunner(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runner.Close() })

	report, err := runner.Run(store)
	require.NoError(t, err)

	assert.True(t, report.Passed)
	assert.True(t, report.Architecture.Passed)
	assert.True(t, report.Tokens.Passed)
	assert.True(t, report.Registry.Result.Passed)
	assert.Nil(t, report.VisualTests)
	assert.NotNil(t, report.TokenSet)
}

func TestRunner_AnyFailingPassFailsTheRun(t *testing.T) {
	root, cfg := cleanProject(t)
	writeFile(t, root, "components/bad-card.js", `el.style.color = 'red';`)
	store := storeWithRecords(t, root)

	runner, err := NewRunner(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runner.Close() })

	report, err := runner.Run(store)
	require.NoError(t, err)

	assert.False(t, report.Passed)
	assert.False(t, report.Architecture.Passed)
}

func TestRunner_VisualTestCommand(t *testing.T) {
	root, cfg := cleanProject(t)
	store := storeWithRecords(t, root,
		record("user-card", "components/user-card.js", registry.LayerComponent),
	)

	runner, err := NewRunner(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runner.Close() })
	runner.VisualTestCommand = "true"

	report, err := runner.Run(store)
	require.NoError(t, err)
	require.NotNil(t, report.VisualTests)
	assert.True(t, report.VisualTests.Passed)
	assert.True(t, report.Passed)

	runner.VisualTestCommand = "false"
	report, err = runner.Run(store)
	require.NoError(t, err)
	assert.False(t, report.VisualTests.Passed)
	assert.False(t, report.Passed)
}
