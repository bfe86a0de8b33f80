package generate

import (
	"context"
	"errors"
	"testing"

	"qforge/internal/codec"
	"qforge/internal/question"
)

type replicatorMock struct {
	fn func(ctx context.Context, rec question.Record) ([]question.Record, error)
}

func (m *replicatorMock) Replicate(ctx context.Context, rec question.Record) ([]question.Record, error) {
	return m.fn(ctx, rec)
}

func batchCollection(t *testing.T) *question.Collection {
	t.Helper()
	v, err := codec.Parse(`[{"short_text":"Q1"},{"short_text":"Q2"},{"short_text":"Q3"}]`)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	c, err := question.FromParsedValue(v)
	if err != nil {
		t.Fatalf("build collection: %v", err)
	}
	return c
}

func TestRunMergesEachGroupInOrder(t *testing.T) {
	c := batchCollection(t)
	base, _ := c.Group(question.BaseGroupKey)

	rep := &replicatorMock{fn: func(_ context.Context, rec question.Record) ([]question.Record, error) {
		return []question.Record{{"short_text": rec.String("short_text") + " variant"}}, nil
	}}

	var events []Event
	err := NewRunner(rep).Run(context.Background(), base.Records, c, func(e Event) { events = append(events, e) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, key := range []string{"Question1", "Question2", "Question3"} {
		g, ok := c.Group(key)
		if !ok || len(g.Records) != 1 {
			t.Fatalf("missing group %s", key)
		}
		want := base.Records[i].String("short_text") + " variant"
		if g.Records[0].String("short_text") != want {
			t.Fatalf("group %s content mismatch", key)
		}
	}

	if len(events) != 4 {
		t.Fatalf("expected 3 progress events plus done, got %d", len(events))
	}
	for i := 0; i < 3; i++ {
		if events[i].Kind != Progress || events[i].Index != i || events[i].Total != 3 {
			t.Fatalf("event %d: %+v", i, events[i])
		}
	}
	if events[3].Kind != Done {
		t.Fatalf("final event must be Done: %+v", events[3])
	}
}

func TestRunPartialFailureKeepsEarlierGroups(t *testing.T) {
	c := batchCollection(t)
	base, _ := c.Group(question.BaseGroupKey)

	boom := errors.New("model overloaded")
	calls := 0
	rep := &replicatorMock{fn: func(_ context.Context, _ question.Record) ([]question.Record, error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		return []question.Record{{"short_text": "variant"}}, nil
	}}

	var last Event
	err := NewRunner(rep).Run(context.Background(), base.Records, c, func(e Event) { last = e })
	if !errors.Is(err, boom) {
		t.Fatalf("expected the replicate error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("the batch must stop at the failed call, made %d calls", calls)
	}

	if _, ok := c.Group("Question1"); !ok {
		t.Fatalf("Question1 must survive the failure")
	}
	for _, key := range []string{"Question2", "Question3"} {
		if _, ok := c.Group(key); ok {
			t.Fatalf("%s must not exist after the failure", key)
		}
	}
	if last.Kind != Failed || last.Index != 1 {
		t.Fatalf("last event must report the failed item: %+v", last)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	c := batchCollection(t)
	base, _ := c.Group(question.BaseGroupKey)

	ctx, cancel := context.WithCancel(context.Background())
	rep := &replicatorMock{fn: func(_ context.Context, _ question.Record) ([]question.Record, error) {
		cancel()
		return []question.Record{{"short_text": "variant"}}, nil
	}}

	err := NewRunner(rep).Run(ctx, base.Records, c, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, ok := c.Group("Question1"); !ok {
		t.Fatalf("the group finished before cancellation must be kept")
	}
	if _, ok := c.Group("Question2"); ok {
		t.Fatalf("no group may be created after cancellation")
	}
}

func TestRunEmptyBatch(t *testing.T) {
	c := batchCollection(t)
	var events []Event
	err := NewRunner(&replicatorMock{fn: func(context.Context, question.Record) ([]question.Record, error) {
		t.Fatal("replicate must not be called")
		return nil, nil
	}}).Run(context.Background(), nil, c, func(e Event) { events = append(events, e) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(events) != 1 || events[0].Kind != Done {
		t.Fatalf("expected a single Done event, got %v", events)
	}
}
