package buildpipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type recordSink struct {
	events []Event
}

func (s *recordSink) OnEvent(evt Event) {
	s.events = append(s.events, evt)
}

func writeEntry(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.gaut")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileEmitsStageEvents(t *testing.T) {
	entry := writeEntry(t, `
main() = 42
`)
	sink := &recordSink{}
	res, err := Compile(context.Background(), &CompileRequest{
		TargetPath: entry,
		Progress:   sink,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Res == nil || !res.Res.Ok() {
		t.Fatal("frontend result missing")
	}

	var got []string
	for _, evt := range sink.events {
		got = append(got, string(evt.Stage)+":"+string(evt.Status))
	}
	want := []string{"parse:working", "parse:done", "check:working", "check:done"}
	if len(got) != len(want) {
		t.Fatalf("events = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCompileReportsCheckFailure(t *testing.T) {
	entry := writeEntry(t, `
main() = {
  s: Str = "a"
  u: Str = s
  s
}
`)
	sink := &recordSink{}
	_, err := Compile(context.Background(), &CompileRequest{
		TargetPath: entry,
		Progress:   sink,
	})
	if err == nil {
		t.Fatal("expected check failure")
	}
	last := sink.events[len(sink.events)-1]
	if last.Stage != StageCheck || last.Status != StatusError {
		t.Fatalf("last event = %+v", last)
	}
}

func TestEmitCIsDeterministic(t *testing.T) {
	entry := writeEntry(t, `
type Point = { x: i32, y: i32 }

dist2(p: &Point) -> i32 = copy p.x * copy p.x + copy p.y * copy p.y

main() = {
  p: Point = { x: 3, y: 4 }
  dist2(&p)
}
`)
	first, _, err := EmitC(context.Background(), &CompileRequest{TargetPath: entry})
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := EmitC(context.Background(), &CompileRequest{TargetPath: entry})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("double emission differs")
	}
}

func TestCompileRespectsContext(t *testing.T) {
	entry := writeEntry(t, `
main() = 0
`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Compile(ctx, &CompileRequest{TargetPath: entry}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestTimings(t *testing.T) {
	var tm Timings
	tm.Set(StageParse, 2*time.Millisecond)
	tm.Set(StageCheck, 3*time.Millisecond)
	if !tm.Has(StageParse) || tm.Has(StageBuild) {
		t.Fatal("Has misreports recorded stages")
	}
	if got := tm.Sum(StageParse, StageCheck); got != 5*time.Millisecond {
		t.Fatalf("Sum = %v", got)
	}
}
