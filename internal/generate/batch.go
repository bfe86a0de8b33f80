package generate

import (
	"context"
	"fmt"

	"qforge/internal/question"
)

// Replicator is the slice of Client the batch runner needs.
type Replicator interface {
	Replicate(ctx context.Context, rec question.Record) ([]question.Record, error)
}

// GroupSink receives generated groups as they complete. *question.Collection
// satisfies it.
type GroupSink interface {
	MergeGeneratedGroup(key string, records []question.Record)
}

type EventKind int

const (
	Progress EventKind = iota
	Done
	Failed
)

// Event reports batch progress. Index is zero-based; GroupKey is set on
// Progress events.
type Event struct {
	Kind     EventKind
	Index    int
	Total    int
	GroupKey string
	Err      error
}

// Runner replicates a batch of source records one at a time. Each finished
// item is merged into the sink before the next call starts, so a mid-batch
// failure leaves every earlier group in place and nothing after it.
type Runner struct {
	rep Replicator
}

func NewRunner(rep Replicator) *Runner {
	return &Runner{rep: rep}
}

func (r *Runner) Run(ctx context.Context, records []question.Record, sink GroupSink, emit func(Event)) error {
	if emit == nil {
		emit = func(Event) {}
	}
	total := len(records)
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			emit(Event{Kind: Failed, Index: i, Total: total, Err: err})
			return err
		}
		generated, err := r.rep.Replicate(ctx, rec)
		if err != nil {
			err = fmt.Errorf("question %d: %w", i+1, err)
			emit(Event{Kind: Failed, Index: i, Total: total, Err: err})
			return err
		}
		key := fmt.Sprintf("Question%d", i+1)
		sink.MergeGeneratedGroup(key, generated)
		emit(Event{Kind: Progress, Index: i, Total: total, GroupKey: key})
	}
	emit(Event{Kind: Done, Total: total})
	return nil
}
