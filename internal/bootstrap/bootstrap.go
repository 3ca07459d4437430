// Package bootstrap implements the self-host determinism harness: double
// emission hashing over a sample corpus and a staged fixpoint search in
// which every stage of the compiler rebuilds itself until two consecutive
// stages emit byte-identical output.
package bootstrap

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gaut/internal/source"
)

// ErrDeterminismMismatch reports hash divergence between two emissions that
// the protocol requires to be identical.
var ErrDeterminismMismatch = errors.New("determinism mismatch")

// ErrDiverged reports that the staged fixpoint search exhausted its stage
// budget without two consecutive stages agreeing.
var ErrDiverged = errors.New("bootstrap diverged")

// DefaultMaxStages bounds the fixpoint search.
const DefaultMaxStages = 6

// Options configures a harness run.
type Options struct {
	// CompilerSource is the self-hosted compiler's entry file.
	CompilerSource string
	// Corpus lists sample programs for determinism verification.
	Corpus []string
	// Strict makes any stage mismatch fatal. Lenient mode records the
	// mismatch and keeps going, which is useful while the self-hosted
	// compiler is incomplete.
	Strict bool
	// MaxStages caps the fixpoint search; zero means DefaultMaxStages.
	MaxStages int
	// Log receives human-readable progress lines; nil discards them.
	Log io.Writer
	// Cache skips already-verified source digests when set.
	Cache *StageCache
	// WorkDir holds stage binaries; empty means a temp directory that is
	// removed afterwards.
	WorkDir string
}

// StageResult records one stage transition of the bootstrap chain.
type StageResult struct {
	Stage    int
	Digest   source.Digest
	Matched  bool
	Mismatch string
}

// Report is the outcome of a full bootstrap run.
type Report struct {
	SourceDigest source.Digest
	Stages       []StageResult
	Converged    bool
	FromCache    bool
}

// Harness drives the protocol against a Toolchain.
type Harness struct {
	tc   Toolchain
	opts Options
}

// New builds a harness; the toolchain is required.
func New(tc Toolchain, opts Options) (*Harness, error) {
	if tc == nil {
		return nil, fmt.Errorf("bootstrap: nil toolchain")
	}
	if opts.MaxStages <= 0 {
		opts.MaxStages = DefaultMaxStages
	}
	if opts.Log == nil {
		opts.Log = io.Discard
	}
	return &Harness{tc: tc, opts: opts}, nil
}

// Bootstrap runs the staged fixpoint search over the compiler source.
//
// Stage 0 is the trusted host pipeline; each later stage is a native
// binary built from the previous stage's output and asked to compile the
// same source. The search stops when two consecutive stages emit identical
// bytes, and fails with ErrDiverged when the stage budget runs out.
func (h *Harness) Bootstrap(ctx context.Context) (*Report, error) {
	if h.opts.CompilerSource == "" {
		return nil, fmt.Errorf("bootstrap: no compiler source configured")
	}
	srcBytes, err := os.ReadFile(h.opts.CompilerSource)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: read compiler source: %w", err)
	}
	report := &Report{SourceDigest: sha256.Sum256(srcBytes)}

	if cached, ok := h.cachedReport(report.SourceDigest); ok {
		fmt.Fprintf(h.opts.Log, "bootstrap: source %x already verified, %d stage(s)\n",
			report.SourceDigest[:8], len(cached.Stages))
		cached.FromCache = true
		return cached, nil
	}

	workDir := h.opts.WorkDir
	if workDir == "" {
		tmp, err := os.MkdirTemp("", "gaut-bootstrap-*")
		if err != nil {
			return nil, fmt.Errorf("bootstrap: workdir: %w", err)
		}
		defer os.RemoveAll(tmp)
		workDir = tmp
	}

	fmt.Fprintf(h.opts.Log, "stage 0: host emits %s\n", h.opts.CompilerSource)
	prev, err := h.tc.EmitC(ctx, h.opts.CompilerSource)
	if err != nil {
		return report, fmt.Errorf("stage 0 emit: %w", err)
	}
	report.Stages = append(report.Stages, StageResult{Stage: 0, Digest: sha256.Sum256(prev), Matched: true})

	for stage := 1; stage <= h.opts.MaxStages; stage++ {
		bin := filepath.Join(workDir, fmt.Sprintf("stage%d", stage))
		fmt.Fprintf(h.opts.Log, "stage %d: build from stage %d output\n", stage, stage-1)
		if err := h.tc.BuildNative(ctx, prev, bin); err != nil {
			return report, fmt.Errorf("stage %d build: %w", stage, err)
		}

		cur, err := h.tc.RunCompiler(ctx, bin, h.opts.CompilerSource)
		if err != nil {
			return report, fmt.Errorf("stage %d emit: %w", stage, err)
		}
		res := StageResult{Stage: stage, Digest: sha256.Sum256(cur)}
		res.Matched = res.Digest == report.Stages[stage-1].Digest
		if !res.Matched {
			res.Mismatch = fmt.Sprintf("stage %d output differs from stage %d", stage, stage-1)
			fmt.Fprintf(h.opts.Log, "%s\n", res.Mismatch)
			if h.opts.Strict {
				report.Stages = append(report.Stages, res)
				return report, fmt.Errorf("%w: %s", ErrDeterminismMismatch, res.Mismatch)
			}
		}
		report.Stages = append(report.Stages, res)

		if res.Matched {
			report.Converged = true
			fmt.Fprintf(h.opts.Log, "fixpoint: stage %d == stage %d\n", stage, stage-1)
			h.storeReport(report)
			return report, nil
		}
		prev = cur
	}
	return report, fmt.Errorf("%w after %d stage(s)", ErrDiverged, h.opts.MaxStages)
}

func (h *Harness) cachedReport(digest source.Digest) (*Report, bool) {
	if h.opts.Cache == nil {
		return nil, false
	}
	var entry CacheEntry
	found, err := h.opts.Cache.Get(digest, &entry)
	if err != nil || !found || !entry.Converged {
		return nil, false
	}
	return entryToReport(digest, &entry), true
}

func (h *Harness) storeReport(report *Report) {
	if h.opts.Cache == nil || !report.Converged {
		return
	}
	if err := h.opts.Cache.Put(report.SourceDigest, reportToEntry(report)); err != nil {
		fmt.Fprintf(h.opts.Log, "stage cache write failed: %v\n", err)
	}
}
