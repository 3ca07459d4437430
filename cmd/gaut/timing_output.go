package main

import (
	"fmt"
	"io"
	"time"

	"gaut/internal/buildpipeline"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings, includeBuilt bool) {
	if out == nil {
		return
	}
	if timings.Has(buildpipeline.StageParse) {
		fmt.Fprintf(out, "parsed %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageParse)))
	}
	if timings.Has(buildpipeline.StageCheck) {
		fmt.Fprintf(out, "checked %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageCheck)))
	}
	if timings.Has(buildpipeline.StageEmit) {
		fmt.Fprintf(out, "emitted %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageEmit)))
	}
	if includeBuilt && timings.Has(buildpipeline.StageBuild) {
		fmt.Fprintf(out, "built %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageBuild)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
