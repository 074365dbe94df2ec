package snapshot

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0o644))
	}
	return fsys
}

func TestDetectProject(t *testing.T) {
	const pkg = `{"name": "web", "version": "1.2.0"}`
	const cargo = "[package]\nname = \"crab\"\nversion = \"0.3.1\"\n"
	const gomod = "module github.com/acme/tool\n\ngo 1.23\n"

	tests := []struct {
		name  string
		files map[string]string
		want  ProjectInfo
	}{
		{
			name:  "empty",
			files: map[string]string{},
			want:  ProjectInfo{Kind: ProjectUnknown},
		},
		{
			name:  "bun outranks node",
			files: map[string]string{"bun.lockb": "", "package.json": pkg},
			want:  ProjectInfo{Kind: ProjectBun, Name: "web", Version: "1.2.0"},
		},
		{
			name:  "text bun lockfile",
			files: map[string]string{"bun.lock": "{}"},
			want:  ProjectInfo{Kind: ProjectBun},
		},
		{
			name:  "node outranks rust",
			files: map[string]string{"package.json": pkg, "Cargo.toml": cargo},
			want:  ProjectInfo{Kind: ProjectNode, Name: "web", Version: "1.2.0"},
		},
		{
			name:  "malformed package.json falls through",
			files: map[string]string{"package.json": "{not json", "go.mod": gomod},
			want:  ProjectInfo{Kind: ProjectGo, Name: "github.com/acme/tool"},
		},
		{
			name:  "rust",
			files: map[string]string{"Cargo.toml": cargo, "pyproject.toml": ""},
			want:  ProjectInfo{Kind: ProjectRust, Name: "crab", Version: "0.3.1"},
		},
		{
			name:  "python outranks go",
			files: map[string]string{"setup.py": "", "go.mod": gomod},
			want:  ProjectInfo{Kind: ProjectPython},
		},
		{
			name:  "go",
			files: map[string]string{"go.mod": gomod},
			want:  ProjectInfo{Kind: ProjectGo, Name: "github.com/acme/tool"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectProject(context.Background(), memFs(t, tt.files))
			assert.Equal(t, tt.want, got)
		})
	}
}
