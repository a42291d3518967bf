package csv

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "table.csv")
	writer := NewTableWriter(path)

	header := []string{"Amount", "CustomerId", "is_high_risk"}
	rows := [][]string{
		{"1.5", "C1", "1"},
		{"-0.25", "C2", "0"},
	}
	require.NoError(t, writer.Write(header, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, header, records[0])
	assert.Equal(t, rows[0], records[1])
	assert.Equal(t, rows[1], records[2])
}

func TestTableWriter_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	writer := NewTableWriter(path)
	require.NoError(t, writer.Write([]string{"a"}, [][]string{{"1"}}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(content))
}

func TestTableWriter_LeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	writer := NewTableWriter(filepath.Join(dir, "table.csv"))
	require.NoError(t, writer.Write([]string{"a"}, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "table.csv", entries[0].Name())
}
