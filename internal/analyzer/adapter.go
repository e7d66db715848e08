package analyzer

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Outcome is the resolved form of an engine callback: either a report list
// or a failure cause.
type Outcome struct {
	Reports []*FileReport
	Err     error
}

// Resolve interprets an engine callback. A list delivered through failure
// is a success payload whatever reports holds; elements that are not file
// reports become missing records so positions are preserved. Any other
// non-nil failure is a genuine error.
func Resolve(failure any, reports []*FileReport) Outcome {
	if failure == nil {
		return Outcome{Reports: reports}
	}

	switch v := failure.(type) {
	case []*FileReport:
		return Outcome{Reports: v}
	case error:
		return Outcome{Err: v}
	}

	rv := reflect.ValueOf(failure)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]*FileReport, rv.Len())
		for i := range out {
			out[i] = asReport(rv.Index(i).Interface())
		}
		return Outcome{Reports: out}
	}

	return Outcome{Err: fmt.Errorf("analysis engine failed: %v", failure)}
}

func asReport(v any) *FileReport {
	switch r := v.(type) {
	case *FileReport:
		return r
	case FileReport:
		return &r
	default:
		return nil
	}
}

// Analyze runs engine over files and blocks until it reports back.
// Only one completion is honored.
func Analyze(ctx context.Context, engine Engine, files []string, outputDir string, opts Options) ([]*FileReport, error) {
	ch := make(chan Outcome, 1)
	var once sync.Once

	engine.Inspect(ctx, files, outputDir, opts, func(failure any, reports []*FileReport) {
		once.Do(func() {
			ch <- Resolve(failure, reports)
		})
	})

	select {
	case out := <-ch:
		if out.Err != nil {
			return nil, fmt.Errorf("analysis failed: %w", out.Err)
		}
		return out.Reports, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
