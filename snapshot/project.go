package snapshot

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

var (
	cargoNamePattern    = regexp.MustCompile(`name\s*=\s*"([^"]+)"`)
	cargoVersionPattern = regexp.MustCompile(`version\s*=\s*"([^"]+)"`)
	goModulePattern     = regexp.MustCompile(`module\s+(\S+)`)
)

// manifestFiles are looked up at the work-tree root. Only the ones with a
// parser read their content; the rest are existence checks.
var manifestFiles = map[string]bool{
	"bun.lockb":      false,
	"bun.lock":       false,
	"package.json":   true,
	"Cargo.toml":     true,
	"pyproject.toml": false,
	"setup.py":       false,
	"go.mod":         true,
}

type manifest struct {
	content []byte
}

// manifestSet maps a manifest name to what was found; absent files have no entry.
type manifestSet map[string]manifest

func (p manifestSet) has(names ...string) bool {
	for _, name := range names {
		if _, ok := p[name]; ok {
			return true
		}
	}
	return false
}

type packageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// packageJSON returns the parsed package manifest, or false when it is
// missing or not valid JSON.
func (p manifestSet) packageJSON() (packageJSON, bool) {
	m, ok := p["package.json"]
	if !ok {
		return packageJSON{}, false
	}
	var pkg packageJSON
	if err := json.Unmarshal(m.content, &pkg); err != nil {
		return packageJSON{}, false
	}
	return pkg, true
}

type projectResolver struct {
	matches func(manifestSet) bool
	resolve func(manifestSet) ProjectInfo
}

// projectResolvers are evaluated in priority order; the first match wins.
var projectResolvers = []projectResolver{
	{
		matches: func(p manifestSet) bool { return p.has("bun.lockb", "bun.lock") },
		resolve: func(p manifestSet) ProjectInfo {
			pkg, _ := p.packageJSON()
			return ProjectInfo{Kind: ProjectBun, Name: pkg.Name, Version: pkg.Version}
		},
	},
	{
		matches: func(p manifestSet) bool { _, ok := p.packageJSON(); return ok },
		resolve: func(p manifestSet) ProjectInfo {
			pkg, _ := p.packageJSON()
			return ProjectInfo{Kind: ProjectNode, Name: pkg.Name, Version: pkg.Version}
		},
	},
	{
		matches: func(p manifestSet) bool { return p.has("Cargo.toml") },
		resolve: func(p manifestSet) ProjectInfo {
			content := p["Cargo.toml"].content
			return ProjectInfo{
				Kind:    ProjectRust,
				Name:    firstGroup(cargoNamePattern, content),
				Version: firstGroup(cargoVersionPattern, content),
			}
		},
	},
	{
		matches: func(p manifestSet) bool { return p.has("pyproject.toml", "setup.py") },
		resolve: func(manifestSet) ProjectInfo { return ProjectInfo{Kind: ProjectPython} },
	},
	{
		matches: func(p manifestSet) bool { return p.has("go.mod") },
		resolve: func(p manifestSet) ProjectInfo {
			return ProjectInfo{Kind: ProjectGo, Name: firstGroup(goModulePattern, p["go.mod"].content)}
		},
	},
}

// DetectProject identifies the project at the root of fsys. Probes run
// concurrently; any manifest that fails to read is treated as absent.
func DetectProject(ctx context.Context, fsys afero.Fs) ProjectInfo {
	found := make(manifestSet, len(manifestFiles))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for name, readContent := range manifestFiles {
		g.Go(func() error {
			m, ok := readManifest(gctx, fsys, name, readContent)
			if ok {
				mu.Lock()
				found[name] = m
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range projectResolvers {
		if r.matches(found) {
			return r.resolve(found)
		}
	}
	return ProjectInfo{Kind: ProjectUnknown}
}

func readManifest(ctx context.Context, fsys afero.Fs, name string, readContent bool) (manifest, bool) {
	if ctx.Err() != nil {
		return manifest{}, false
	}
	if !readContent {
		ok, err := afero.Exists(fsys, name)
		return manifest{}, err == nil && ok
	}
	content, err := afero.ReadFile(fsys, name)
	if err != nil {
		return manifest{}, false
	}
	return manifest{content: content}, true
}

func firstGroup(pattern *regexp.Regexp, content []byte) string {
	if m := pattern.FindSubmatch(content); m != nil {
		return string(m[1])
	}
	return ""
}
