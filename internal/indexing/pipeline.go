package indexing

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/xref/internal/debug"
	"github.com/standardbeagle/xref/internal/descriptor"
	errs "github.com/standardbeagle/xref/internal/errors"
	"github.com/standardbeagle/xref/internal/indexdb"
)

// State is the pipeline's lifecycle position, for introspection and tests.
type State int32

const (
	StateIdle State = iota
	StateDispatching
	StateCollecting
	StateMerging
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateCollecting:
		return "collecting"
	case StateMerging:
		return "merging"
	case StateFinalized:
		return "finalized"
	}
	return "unknown"
}

// taskResult carries one extraction task's output to the collection loop.
type taskResult struct {
	index *indexdb.Index
	err   error // defect-class only; parse failures yield an empty index
}

// Pipeline builds the global cross-reference index: it dispatches one
// extraction task per descriptor record onto a bounded worker pool, collects
// the per-file indexes strictly in submission order, and folds each into the
// global index.
//
// Tasks share no mutable state; the global index is touched only by the
// collection loop, single-threaded. Collection order - not completion
// order - drives the merges, so the persisted output is identical across
// runs regardless of scheduling.
type Pipeline struct {
	extractor *Extractor
	workers   int
	state     atomic.Int32
}

// NewPipeline creates a pipeline over the given extractor. workers bounds
// extraction concurrency; 0 means one worker per CPU.
func NewPipeline(extractor *Extractor, workers int) *Pipeline {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pipeline{
		extractor: extractor,
		workers:   workers,
	}
}

// State returns the pipeline's current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

func (p *Pipeline) setState(s State) {
	p.state.Store(int32(s))
	debug.LogPipeline("state -> %s\n", s)
}

// Run builds the global index for records and persists it at outputPath.
// Dispatched tasks always run to completion: there is no per-task
// cancellation, retry, or timeout. Per-file parse failures are logged inside
// the tasks and contribute empty indexes; the run still succeeds and the
// persisted index is valid (possibly empty of facts). Only startup problems
// and defect-class errors (schema or state misuse) fail the run, and nothing
// is written in that case.
func (p *Pipeline) Run(ctx context.Context, records []descriptor.SourceFile, outputPath string) (*indexdb.Index, error) {
	if err := checkOutputWritable(outputPath); err != nil {
		return nil, err
	}

	global, err := NewIndex("global")
	if err != nil {
		return nil, err
	}

	p.setState(StateDispatching)
	results := make([]chan taskResult, len(records))
	group := new(errgroup.Group)
	group.SetLimit(p.workers)
	for i, record := range records {
		ch := make(chan taskResult, 1)
		results[i] = ch
		group.Go(func() error {
			ix, err := p.extractor.ExtractFile(ctx, record)
			ch <- taskResult{index: ix, err: err}
			return nil
		})
	}
	// Workers never block on their buffered result slot, so they finish on
	// their own even if the collection loop bails out early.
	defer func() { _ = group.Wait() }()

	// Await task i before task i+1, whatever order workers finish in; a slow
	// file delays only the point its own result is consumed. Each per-file
	// index is merged and dropped before the next is awaited.
	for i, record := range records {
		p.setState(StateCollecting)
		result := <-results[i]
		if result.err != nil {
			return nil, result.err
		}
		p.setState(StateMerging)
		if err := global.Merge(result.index); err != nil {
			return nil, err
		}
		log.Printf("indexed %s", record.Path)
	}

	global.SetReadOnly()
	if err := global.Save(outputPath); err != nil {
		return nil, err
	}
	p.setState(StateFinalized)
	return global, nil
}

// checkOutputWritable probes the output location before any work is
// dispatched; an unwritable output path is a startup error and the pipeline
// must not burn through the whole descriptor only to fail at the end.
func checkOutputWritable(path string) error {
	dir := filepath.Dir(path)
	probe, err := os.CreateTemp(dir, ".xref-writecheck-*")
	if err != nil {
		return errs.NewStartupError("check output path", path, err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}
