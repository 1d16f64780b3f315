package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverLogs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"kernel_2.json", "kernel_1.json", "kernel_current.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{"lines": []}`), 0644))
	}

	got, err := DiscoverLogs(dir, "kernel_*.json", []string{"kernel_current.json"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "kernel_1.json"),
		filepath.Join(dir, "kernel_2.json"),
	}, got)
}

func TestLoadRunInput(t *testing.T) {
	dir := t.TempDir()
	doc := `{"lines": ["Aux log file:", "x"], "metadata": {"test_marker": null}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kernel_1.json"), []byte(doc), 0644))

	in, err := LoadRunInput("baseline", dir, "kernel_*.json", nil)
	require.NoError(t, err)
	assert.Equal(t, "baseline", in.Name)
	require.Len(t, in.Logs, 1)
	assert.Equal(t, "kernel_1.json", in.Logs[0].Source)
	assert.Equal(t, []string{"Aux log file:", "x"}, in.Logs[0].Lines)
}

func TestLoadRunInput_BadDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kernel_1.json"), []byte(`not json`), 0644))

	_, err := LoadRunInput("baseline", dir, "kernel_*.json", nil)
	assert.Error(t, err)
}
