package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "calc"

[run]
main = "src/main.gaut"
std = "std"

[arena]
capacity = 131072

[bootstrap]
source = "src/compiler.gaut"
corpus = ["examples/a.gaut"]
max_stages = 4
strict = true
`)

	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Config.Package.Name != "calc" {
		t.Errorf("name = %q", m.Config.Package.Name)
	}
	if m.Config.Arena.Capacity != 131072 {
		t.Errorf("capacity = %d", m.Config.Arena.Capacity)
	}
	if !m.Config.Bootstrap.Strict || m.Config.Bootstrap.MaxStages != 4 {
		t.Errorf("bootstrap = %+v", m.Config.Bootstrap)
	}
	if got := m.StdDir(); got != filepath.Join(dir, "std") {
		t.Errorf("StdDir = %q", got)
	}
}

func TestLoadRejectsMissingPackage(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[run]
main = "main.gaut"
`)
	if _, err := Load(path); !errors.Is(err, ErrPackageSectionMissing) {
		t.Fatalf("got %v", err)
	}
}

func TestLoadRejectsEmptyName(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "  "
`)
	if _, err := Load(path); !errors.Is(err, ErrPackageNameMissing) {
		t.Fatalf("got %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "demo"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, found, err := Find(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !found || m.Root != root {
		t.Fatalf("found=%v root=%q", found, m.Root)
	}
}

func TestFindReportsAbsence(t *testing.T) {
	_, found, err := Find(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("unexpected manifest")
	}
}

func TestRunTarget(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.gaut"), []byte("main() = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeManifest(t, dir, `
[package]
name = "demo"

[run]
main = "main.gaut"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	target, err := m.RunTarget()
	if err != nil {
		t.Fatal(err)
	}
	if target != filepath.Join(dir, "main.gaut") {
		t.Errorf("target = %q", target)
	}
}

func TestRunTargetMissingMain(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "demo"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.RunTarget(); !errors.Is(err, ErrRunMainMissing) {
		t.Fatalf("got %v", err)
	}
}

func TestBootstrapCorpusGlobs(t *testing.T) {
	dir := t.TempDir()
	samples := filepath.Join(dir, "examples")
	if err := os.MkdirAll(samples, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.gaut", "b.gaut"} {
		if err := os.WriteFile(filepath.Join(samples, name), []byte("main() = 0\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	path := writeManifest(t, dir, `
[package]
name = "demo"

[bootstrap]
source = "examples/a.gaut"
corpus = ["examples/*.gaut"]
`)
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	corpus, err := m.BootstrapCorpus()
	if err != nil {
		t.Fatal(err)
	}
	if len(corpus) != 2 {
		t.Fatalf("corpus = %v", corpus)
	}
}
