// Package project handles the gaut.toml manifest: project name, run
// target, arena sizing and bootstrap configuration.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the CLI looks for when no explicit target is
// given.
const ManifestName = "gaut.toml"

var (
	// ErrPackageSectionMissing indicates that [package] is absent.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is absent.
	ErrPackageNameMissing = errors.New("missing [package].name")
	// ErrRunMainMissing indicates that [run].main is absent.
	ErrRunMainMissing = errors.New("missing [run].main")
)

// Config mirrors the manifest's TOML shape.
type Config struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Run struct {
		Main string `toml:"main"`
		Std  string `toml:"std"`
	} `toml:"run"`
	Arena struct {
		Capacity int `toml:"capacity"`
	} `toml:"arena"`
	Bootstrap struct {
		Source    string   `toml:"source"`
		Corpus    []string `toml:"corpus"`
		MaxStages int      `toml:"max_stages"`
		Strict    bool     `toml:"strict"`
	} `toml:"bootstrap"`
}

// Manifest is a loaded gaut.toml plus its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Load parses and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Manifest{
		Path:   abs,
		Root:   filepath.Dir(abs),
		Config: cfg,
	}, nil
}

// Find walks up from startDir looking for a gaut.toml. The second return
// is false when no manifest exists on the path to the filesystem root.
func Find(startDir string) (*Manifest, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, false, err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			m, err := Load(candidate)
			if err != nil {
				return nil, true, err
			}
			return m, true, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, false, nil
		}
		dir = parent
	}
}

// RunTarget resolves [run].main against the manifest root.
func (m *Manifest) RunTarget() (string, error) {
	mainRel := strings.TrimSpace(m.Config.Run.Main)
	if mainRel == "" {
		return "", fmt.Errorf("%s: %w", m.Path, ErrRunMainMissing)
	}
	mainPath := filepath.Join(m.Root, filepath.FromSlash(mainRel))
	info, err := os.Stat(mainPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [run].main path does not exist: %s", m.Path, mainPath)
		}
		return "", fmt.Errorf("%s: failed to stat [run].main: %w", m.Path, err)
	}
	if info.IsDir() || filepath.Ext(mainPath) != ".gaut" {
		return "", fmt.Errorf("%s: [run].main must be a .gaut file", m.Path)
	}
	return mainPath, nil
}

// StdDir resolves the optional [run].std override against the manifest
// root; empty when unset.
func (m *Manifest) StdDir() string {
	std := strings.TrimSpace(m.Config.Run.Std)
	if std == "" {
		return ""
	}
	if filepath.IsAbs(std) {
		return std
	}
	return filepath.Join(m.Root, filepath.FromSlash(std))
}

// BootstrapSource resolves [bootstrap].source against the manifest root.
func (m *Manifest) BootstrapSource() (string, error) {
	src := strings.TrimSpace(m.Config.Bootstrap.Source)
	if src == "" {
		return "", fmt.Errorf("%s: missing [bootstrap].source", m.Path)
	}
	return filepath.Join(m.Root, filepath.FromSlash(src)), nil
}

// BootstrapCorpus resolves [bootstrap].corpus entries against the
// manifest root, expanding globs.
func (m *Manifest) BootstrapCorpus() ([]string, error) {
	var samples []string
	for _, pattern := range m.Config.Bootstrap.Corpus {
		full := filepath.Join(m.Root, filepath.FromSlash(pattern))
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("%s: bad corpus pattern %q: %w", m.Path, pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: corpus pattern %q matched nothing", m.Path, pattern)
		}
		samples = append(samples, matches...)
	}
	return samples, nil
}
