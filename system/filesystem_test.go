package system_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/speakeasy-api/yamlcodec/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystem_Open_Success(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.yaml")
	testContent := []byte("a: 1\n")
	require.NoError(t, os.WriteFile(testFile, testContent, 0o644))

	fsys := &system.FileSystem{}
	file, err := fsys.Open(testFile)
	require.NoError(t, err, "should open file successfully")
	defer file.Close()

	content := make([]byte, len(testContent))
	n, err := file.Read(content)
	require.NoError(t, err)
	assert.Equal(t, len(testContent), n)
	assert.Equal(t, testContent, content)
}

func TestFileSystem_Open_Error(t *testing.T) {
	t.Parallel()

	fsys := &system.FileSystem{}
	file, err := fsys.Open(filepath.Join(t.TempDir(), "nonexistent.yaml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Nil(t, file)
}

func TestReadFile_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fsys     system.VirtualFS
		path     func(t *testing.T) string
		expected string
	}{
		{
			name: "in memory file system",
			fsys: fstest.MapFS{"docs/a.yaml": &fstest.MapFile{Data: []byte("key: value\n")}},
			path: func(t *testing.T) string {
				t.Helper()
				return "docs/a.yaml"
			},
			expected: "key: value\n",
		},
		{
			name: "host file system",
			fsys: &system.FileSystem{},
			path: func(t *testing.T) string {
				t.Helper()
				p := filepath.Join(t.TempDir(), "b.yaml")
				require.NoError(t, os.WriteFile(p, []byte("- 1\n- 2\n"), 0o644))
				return p
			},
			expected: "- 1\n- 2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := system.ReadFile(tt.fsys, tt.path(t))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestReadFile_Error(t *testing.T) {
	t.Parallel()

	_, err := system.ReadFile(fstest.MapFS{}, "missing.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
