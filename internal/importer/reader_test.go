package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFileMissing(t *testing.T) {
	rows, err := ReadFile(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	assert.Nil(t, rows)

	var readErr *FileReadError
	require.ErrorAs(t, err, &readErr)
}

func TestReadFileNormalizesHeadersAndValues(t *testing.T) {
	path := writeTempCSV(t, "  Handle , TITLE ,Vendor\n shirt-1 , Shirt ,Acme\n")

	rows, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "shirt-1", rows[0].Get("handle"))
	assert.Equal(t, "Shirt", rows[0].Get("title"))
	assert.Equal(t, "Acme", rows[0].Get("vendor"))
	assert.Equal(t, 2, rows[0].Line)
}

func TestReadFileToleratesVaryingColumnCounts(t *testing.T) {
	// second row is short, third row has an extra trailing field
	path := writeTempCSV(t, "Handle,Title,Vendor\na,First,Acme\nb,Second\nc,Third,Acme,extra\n")

	rows, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "", rows[1].Get("vendor"))
	assert.Equal(t, "Third", rows[2].Get("title"))
}

func TestReadFileIgnoresUnknownColumns(t *testing.T) {
	path := writeTempCSV(t, "Handle,Title,Custom Column\na,First,whatever\n")

	rows, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "whatever", rows[0].Get("custom column"))
	assert.Equal(t, "", rows[0].Get("nonexistent"))
}

func TestReadFileInvalidQuoting(t *testing.T) {
	path := writeTempCSV(t, "Handle,Title\na,\"unterminated\n")

	rows, err := ReadFile(path)
	assert.Nil(t, rows)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestReadFileEmpty(t *testing.T) {
	rows, err := ReadFile(writeTempCSV(t, ""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadFileHeaderOnly(t *testing.T) {
	rows, err := ReadFile(writeTempCSV(t, "Handle,Title\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
