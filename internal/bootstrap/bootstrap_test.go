package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"gaut/internal/source"
)

// stubToolchain simulates stages that stabilize after a configurable
// number of rewrites. Each built "binary" is a text file recording its
// stage number; running it emits output that converges once the stage
// count reaches stableAfter.
type stubToolchain struct {
	stableAfter int
	hostEmits   int
	flakyCorpus bool
	failBuild   bool
}

func (s *stubToolchain) EmitC(_ context.Context, sourcePath string) ([]byte, error) {
	s.hostEmits++
	if s.flakyCorpus {
		return []byte(fmt.Sprintf("// emission %d of %s\n", s.hostEmits, sourcePath)), nil
	}
	return []byte("// stage 0 output of " + sourcePath + "\n"), nil
}

func (s *stubToolchain) BuildNative(_ context.Context, _ []byte, outPath string) error {
	if s.failBuild {
		return errors.New("clang exploded")
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(outPath), "*.stage"))
	stage := len(matches) + 1
	return os.WriteFile(outPath+".stage", []byte(fmt.Sprintf("%d", stage)), 0o600)
}

func (s *stubToolchain) RunCompiler(_ context.Context, compilerBin, sourcePath string) ([]byte, error) {
	raw, err := os.ReadFile(compilerBin + ".stage")
	if err != nil {
		return nil, err
	}
	var stage int
	fmt.Sscanf(string(raw), "%d", &stage)
	if stage >= s.stableAfter {
		return []byte("// converged output of " + sourcePath + "\n"), nil
	}
	return []byte(fmt.Sprintf("// stage %d output of %s\n", stage, sourcePath)), nil
}

func writeSample(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(src), 0o644)
	be.Err(t, err, nil)
	return path
}

func newHarness(t *testing.T, tc Toolchain, opts Options) *Harness {
	t.Helper()
	if opts.WorkDir == "" {
		opts.WorkDir = t.TempDir()
	}
	h, err := New(tc, opts)
	be.Err(t, err, nil)
	return h
}

func TestBootstrapConverges(t *testing.T) {
	src := writeSample(t, "compiler.gaut", "main() = 0\n")
	tc := &stubToolchain{stableAfter: 2}
	h := newHarness(t, tc, Options{CompilerSource: src})

	report, err := h.Bootstrap(context.Background())
	be.Err(t, err, nil)
	be.True(t, report.Converged)
	// stage1 differs from stage0, stage2 differs from stage1,
	// stage3 matches stage2
	be.Equal(t, len(report.Stages), 4)
	be.True(t, report.Stages[len(report.Stages)-1].Matched)
}

func TestBootstrapStrictFailsOnFirstMismatch(t *testing.T) {
	src := writeSample(t, "compiler.gaut", "main() = 0\n")
	tc := &stubToolchain{stableAfter: 3}
	h := newHarness(t, tc, Options{CompilerSource: src, Strict: true})

	_, err := h.Bootstrap(context.Background())
	be.True(t, errors.Is(err, ErrDeterminismMismatch))
}

func TestBootstrapDivergenceIsBounded(t *testing.T) {
	src := writeSample(t, "compiler.gaut", "main() = 0\n")
	// never stabilizes within the budget
	tc := &stubToolchain{stableAfter: 100}
	h := newHarness(t, tc, Options{CompilerSource: src, MaxStages: 3})

	_, err := h.Bootstrap(context.Background())
	be.True(t, errors.Is(err, ErrDiverged))
}

func TestBootstrapBuildFailureSurfaces(t *testing.T) {
	src := writeSample(t, "compiler.gaut", "main() = 0\n")
	tc := &stubToolchain{failBuild: true}
	h := newHarness(t, tc, Options{CompilerSource: src})

	_, err := h.Bootstrap(context.Background())
	be.True(t, err != nil)
}

func TestBootstrapUsesStageCache(t *testing.T) {
	src := writeSample(t, "compiler.gaut", "main() = 0\n")
	cache, err := OpenStageCacheAt(t.TempDir())
	be.Err(t, err, nil)

	tc := &stubToolchain{stableAfter: 1}
	h := newHarness(t, tc, Options{CompilerSource: src, Cache: cache})
	first, err := h.Bootstrap(context.Background())
	be.Err(t, err, nil)
	be.True(t, first.Converged)
	be.True(t, !first.FromCache)

	tc2 := &stubToolchain{failBuild: true} // would fail if actually re-run
	h2 := newHarness(t, tc2, Options{CompilerSource: src, Cache: cache})
	second, err := h2.Bootstrap(context.Background())
	be.Err(t, err, nil)
	be.True(t, second.Converged)
	be.True(t, second.FromCache)
	be.Equal(t, second.SourceDigest, first.SourceDigest)
}

func TestVerifyCorpusDeterministic(t *testing.T) {
	a := writeSample(t, "a.gaut", "main() = 1\n")
	b := writeSample(t, "b.gaut", "main() = 2\n")
	tc := &stubToolchain{}
	h := newHarness(t, tc, Options{CompilerSource: a, Corpus: []string{a, b}})

	results, err := h.VerifyCorpus(context.Background())
	be.Err(t, err, nil)
	be.Equal(t, len(results), 2)
	for _, res := range results {
		be.True(t, res.Matched)
		be.Err(t, res.Err, nil)
	}
}

func TestVerifyCorpusMismatchStrict(t *testing.T) {
	a := writeSample(t, "a.gaut", "main() = 1\n")
	tc := &stubToolchain{flakyCorpus: true}
	h := newHarness(t, tc, Options{CompilerSource: a, Corpus: []string{a}, Strict: true})

	_, err := h.VerifyCorpus(context.Background())
	be.True(t, errors.Is(err, ErrDeterminismMismatch))
}

func TestVerifyCorpusMismatchLenient(t *testing.T) {
	a := writeSample(t, "a.gaut", "main() = 1\n")
	tc := &stubToolchain{flakyCorpus: true}
	h := newHarness(t, tc, Options{CompilerSource: a, Corpus: []string{a}})

	results, err := h.VerifyCorpus(context.Background())
	be.Err(t, err, nil)
	be.Equal(t, len(results), 1)
	be.True(t, !results[0].Matched)
	be.True(t, errors.Is(results[0].Err, ErrDeterminismMismatch))
}

func TestStageCacheRoundTrip(t *testing.T) {
	cache, err := OpenStageCacheAt(t.TempDir())
	be.Err(t, err, nil)

	var key source.Digest
	key[0] = 0xab
	entry := &CacheEntry{
		StageDigests: []source.Digest{{1}, {2}, {2}},
		Converged:    true,
	}
	be.Err(t, cache.Put(key, entry), nil)

	var got CacheEntry
	found, err := cache.Get(key, &got)
	be.Err(t, err, nil)
	be.True(t, found)
	be.True(t, got.Converged)
	be.Equal(t, len(got.StageDigests), 3)

	var missing CacheEntry
	found, err = cache.Get(source.Digest{0xff}, &missing)
	be.Err(t, err, nil)
	be.True(t, !found)
}
