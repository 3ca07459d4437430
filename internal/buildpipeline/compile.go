package buildpipeline

import (
	"context"
	"fmt"
	"time"

	"gaut/internal/cgen"
	"gaut/internal/driver"
)

// CompileRequest configures the shared frontend run.
type CompileRequest struct {
	TargetPath     string
	StdDir         string
	MaxDiagnostics int
	Progress       ProgressSink
}

// CompileResult captures frontend artefacts and stage timings.
type CompileResult struct {
	Res     *driver.Result
	Timings Timings
}

// Compile loads, parses and checks the target program.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing compile request")
	}
	if req.TargetPath == "" {
		return result, fmt.Errorf("missing target path")
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	emit(req.Progress, req.TargetPath, StageParse, StatusWorking, nil, 0)
	start := time.Now()
	res, err := driver.Compile(req.TargetPath, driver.Options{
		StdDir:         req.StdDir,
		MaxDiagnostics: req.MaxDiagnostics,
	})
	result.Res = res
	if err != nil {
		emit(req.Progress, req.TargetPath, StageParse, StatusError, err, time.Since(start))
		return result, err
	}
	parseElapsed := time.Since(start)
	result.Timings.Set(StageParse, parseElapsed)
	if res.Program == nil {
		err := res.Errorf()
		emit(req.Progress, req.TargetPath, StageParse, StatusError, err, parseElapsed)
		return result, err
	}
	emit(req.Progress, req.TargetPath, StageParse, StatusDone, nil, parseElapsed)

	emit(req.Progress, req.TargetPath, StageCheck, StatusWorking, nil, 0)
	if !res.Ok() {
		err := res.Errorf()
		emit(req.Progress, req.TargetPath, StageCheck, StatusError, err, 0)
		return result, err
	}
	result.Timings.Set(StageCheck, time.Since(start)-parseElapsed)
	emit(req.Progress, req.TargetPath, StageCheck, StatusDone, nil, result.Timings.Duration(StageCheck))
	return result, nil
}

// EmitC compiles the target and generates its C translation unit.
func EmitC(ctx context.Context, req *CompileRequest) ([]byte, CompileResult, error) {
	compileRes, err := Compile(ctx, req)
	if err != nil {
		return nil, compileRes, err
	}

	emit(req.Progress, req.TargetPath, StageEmit, StatusWorking, nil, 0)
	start := time.Now()
	cSrc, err := cgen.Generate(compileRes.Res.Verified)
	if err != nil {
		emit(req.Progress, req.TargetPath, StageEmit, StatusError, err, time.Since(start))
		return nil, compileRes, fmt.Errorf("emit C: %w", err)
	}
	compileRes.Timings.Set(StageEmit, time.Since(start))
	emit(req.Progress, req.TargetPath, StageEmit, StatusDone, nil, compileRes.Timings.Duration(StageEmit))
	return cSrc, compileRes, nil
}
