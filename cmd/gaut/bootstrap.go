package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gaut/internal/bootstrap"
	"gaut/internal/project"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap [flags] [compiler.gaut]",
	Short: "Run the self-host determinism harness",
	Long: `Build the self-hosted compiler stage by stage until two consecutive
stages emit byte-identical C, then verify the corpus samples. Without an
argument the compiler source comes from [bootstrap] in gaut.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBootstrap,
}

func init() {
	bootstrapCmd.Flags().Bool("strict", false, "fail on the first stage or corpus mismatch")
	bootstrapCmd.Flags().Int("max-stages", bootstrap.DefaultMaxStages, "maximum stages before declaring divergence")
	bootstrapCmd.Flags().StringSlice("corpus", nil, "sample programs for determinism verification (repeatable)")
	bootstrapCmd.Flags().String("work-dir", "", "directory for stage binaries (default: removed temp dir)")
	bootstrapCmd.Flags().Bool("no-cache", false, "ignore the persistent stage cache")
	bootstrapCmd.Flags().Bool("print-commands", false, "print C compiler and stage invocations")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}
	maxStages, err := cmd.Flags().GetInt("max-stages")
	if err != nil {
		return fmt.Errorf("failed to get max-stages flag: %w", err)
	}
	corpus, err := cmd.Flags().GetStringSlice("corpus")
	if err != nil {
		return fmt.Errorf("failed to get corpus flag: %w", err)
	}
	workDir, err := cmd.Flags().GetString("work-dir")
	if err != nil {
		return fmt.Errorf("failed to get work-dir flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	printCommands, err := cmd.Flags().GetBool("print-commands")
	if err != nil {
		return fmt.Errorf("failed to get print-commands flag: %w", err)
	}

	target, err := resolveBootstrapSource(args)
	if err != nil {
		return err
	}
	stdDir, err := stdDirFor(cmd, target)
	if err != nil {
		return err
	}
	if target.manifest != nil {
		bs := target.manifest.Config.Bootstrap
		if !cmd.Flags().Changed("strict") {
			strict = bs.Strict
		}
		if !cmd.Flags().Changed("max-stages") && bs.MaxStages > 0 {
			maxStages = bs.MaxStages
		}
		if len(corpus) == 0 && len(bs.Corpus) > 0 {
			corpus, err = target.manifest.BootstrapCorpus()
			if err != nil {
				return err
			}
		}
	}

	var cache *bootstrap.StageCache
	if !noCache {
		cache, err = bootstrap.OpenStageCache("gaut")
		if err != nil {
			fmt.Fprintf(os.Stderr, "stage cache unavailable: %v\n", err)
			cache = nil
		}
	}

	tc := &bootstrap.HostToolchain{
		StdDir:        stdDir,
		PrintCommands: printCommands,
	}
	harness, err := bootstrap.New(tc, bootstrap.Options{
		CompilerSource: target.path,
		Corpus:         corpus,
		Strict:         strict,
		MaxStages:      maxStages,
		Log:            os.Stdout,
		Cache:          cache,
		WorkDir:        workDir,
	})
	if err != nil {
		return err
	}

	report, err := harness.Bootstrap(cmd.Context())
	if report != nil {
		printBootstrapReport(report)
	}
	if err != nil {
		return err
	}

	if len(corpus) > 0 {
		results, err := harness.VerifyCorpus(cmd.Context())
		if err != nil {
			return err
		}
		mismatches := 0
		for _, r := range results {
			if !r.Matched {
				mismatches++
			}
		}
		if mismatches > 0 {
			return fmt.Errorf("%d of %d corpus samples were not deterministic", mismatches, len(results))
		}
		fmt.Fprintf(os.Stdout, "corpus: %d samples deterministic\n", len(results))
	}
	return nil
}

// resolveBootstrapSource picks the self-hosted compiler's entry file:
// explicit argument first, then [bootstrap].source from the manifest.
func resolveBootstrapSource(args []string) (runTarget, error) {
	if len(args) > 0 {
		return resolveRunTarget(args)
	}
	target, err := resolveManifestOnly()
	if err != nil {
		return runTarget{}, err
	}
	path, err := target.manifest.BootstrapSource()
	if err != nil {
		return runTarget{}, err
	}
	target.path = path
	return target, nil
}

func resolveManifestOnly() (runTarget, error) {
	manifest, found, err := project.Find(".")
	if err != nil {
		return runTarget{}, err
	}
	if !found {
		return runTarget{}, fmt.Errorf("%s", noManifestMessage)
	}
	return runTarget{manifest: manifest}, nil
}

func printBootstrapReport(report *bootstrap.Report) {
	if report.FromCache {
		fmt.Fprintf(os.Stdout, "bootstrap: cached, converged after %d stage(s)\n", len(report.Stages))
		return
	}
	for _, st := range report.Stages {
		status := "new"
		if st.Matched {
			status = "match"
		} else if st.Stage > 0 {
			status = "differs"
		}
		fmt.Fprintf(os.Stdout, "stage %d: %x %s\n", st.Stage, st.Digest[:8], status)
	}
	if report.Converged {
		fmt.Fprintf(os.Stdout, "bootstrap: converged after %d stage(s)\n", len(report.Stages))
	}
}
