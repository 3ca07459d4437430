package bootstrap

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"gaut/internal/source"
)

// SampleResult is the double-emission verdict for one corpus sample.
type SampleResult struct {
	Name    string
	Digest  source.Digest
	Matched bool
	Err     error
}

// VerifyCorpus emits every corpus sample twice and requires byte-identical
// output. Samples are verified concurrently; each run owns its whole
// pipeline state. In strict mode the first mismatch fails the run;
// lenient mode records mismatches in the results instead.
func (h *Harness) VerifyCorpus(ctx context.Context) ([]SampleResult, error) {
	if len(h.opts.Corpus) == 0 {
		return nil, fmt.Errorf("bootstrap: empty corpus")
	}

	results := make([]SampleResult, len(h.opts.Corpus))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, sample := range h.opts.Corpus {
		g.Go(func() error {
			res := h.verifySample(gctx, sample)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			if res.Err != nil && h.opts.Strict {
				return res.Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	for _, res := range results {
		status := "ok"
		if !res.Matched {
			status = "MISMATCH"
		}
		if res.Err != nil && res.Matched {
			status = "error"
		}
		fmt.Fprintf(h.opts.Log, "corpus %-24s %s\n", res.Name, status)
	}
	return results, nil
}

func (h *Harness) verifySample(ctx context.Context, sample string) SampleResult {
	res := SampleResult{Name: filepath.Base(sample)}

	first, err := h.tc.EmitC(ctx, sample)
	if err != nil {
		res.Err = fmt.Errorf("%s: first emission: %w", res.Name, err)
		return res
	}
	second, err := h.tc.EmitC(ctx, sample)
	if err != nil {
		res.Err = fmt.Errorf("%s: second emission: %w", res.Name, err)
		return res
	}

	res.Digest = sha256.Sum256(first)
	res.Matched = bytes.Equal(first, second)
	if !res.Matched {
		res.Err = fmt.Errorf("%w: sample %s emitted different bytes", ErrDeterminismMismatch, res.Name)
	}
	return res
}
