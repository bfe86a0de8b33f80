package question

import (
	"errors"
	"fmt"
)

// BaseGroupKey names the group holding the originally imported records.
// Generated batches land in sequentially named groups next to it.
const BaseGroupKey = "Base_Question"

var ErrTopLevelShape = errors.New("json must be a question object or an array of question objects")

// Group is a named ordered batch of records: one import, or one
// generation-response batch.
type Group struct {
	Key     string
	Records []Record
}

// Collection is the full in-memory dataset: groups in insertion order plus
// the current group/record selection. Records are only ever mutated through
// reconciliation; groups are only removed by a wholesale source reparse.
type Collection struct {
	groups []*Group
	byKey  map[string]*Group

	currentKey    string
	currentRecord int
}

// FromParsedValue builds a collection from a decoded JSON value. A
// top-level array becomes the base group; a single object becomes a
// one-element base group. Any other shape is rejected.
func FromParsedValue(v any) (*Collection, error) {
	var records []Record
	switch t := v.(type) {
	case []any:
		records = make([]Record, 0, len(t))
		for i, item := range t {
			rec := Object(item)
			if rec == nil {
				return nil, fmt.Errorf("%w: element %d is not an object", ErrTopLevelShape, i)
			}
			records = append(records, rec)
		}
	case map[string]any:
		records = []Record{Record(t)}
	default:
		return nil, ErrTopLevelShape
	}

	c := &Collection{byKey: make(map[string]*Group)}
	c.MergeGeneratedGroup(BaseGroupKey, records)
	c.currentKey = BaseGroupKey
	return c, nil
}

// Groups returns the groups in display-tab order.
func (c *Collection) Groups() []*Group {
	return c.groups
}

// Group looks a group up by key.
func (c *Collection) Group(key string) (*Group, bool) {
	g, ok := c.byKey[key]
	return g, ok
}

// MergeGeneratedGroup appends a named group, or replaces its records if the
// key already exists. Other groups are untouched; the current record index
// is re-clamped in case the selected group shrank.
func (c *Collection) MergeGeneratedGroup(key string, records []Record) {
	if g, ok := c.byKey[key]; ok {
		g.Records = records
	} else {
		g := &Group{Key: key, Records: records}
		c.groups = append(c.groups, g)
		c.byKey[key] = g
	}
	c.clampRecord()
}

// SelectGroup switches the current group and resets the record index to 0.
// Unknown keys are ignored.
func (c *Collection) SelectGroup(key string) bool {
	if _, ok := c.byKey[key]; !ok {
		return false
	}
	c.currentKey = key
	c.currentRecord = 0
	return true
}

// SelectRecord moves the selection within the current group, clamped into
// bounds. A no-op on an empty group.
func (c *Collection) SelectRecord(index int) {
	c.currentRecord = index
	c.clampRecord()
}

// Advance moves the selection by direction (±1), clamped at the group
// bounds with no wraparound.
func (c *Collection) Advance(direction int) {
	c.SelectRecord(c.currentRecord + direction)
}

// CurrentRecord returns the selected record, or nil when nothing is
// selected.
func (c *Collection) CurrentRecord() Record {
	g, ok := c.byKey[c.currentKey]
	if !ok || len(g.Records) == 0 {
		return nil
	}
	return g.Records[c.currentRecord]
}

// ReplaceCurrentRecord swaps the selected record for its reconciled
// successor. A no-op when nothing is selected.
func (c *Collection) ReplaceCurrentRecord(r Record) {
	g, ok := c.byKey[c.currentKey]
	if !ok || len(g.Records) == 0 {
		return
	}
	g.Records[c.currentRecord] = r
}

// CurrentGroupKey returns the selected group key, empty when none.
func (c *Collection) CurrentGroupKey() string {
	return c.currentKey
}

// CurrentIndex returns the selected record index within the current group.
func (c *Collection) CurrentIndex() int {
	return c.currentRecord
}

func (c *Collection) clampRecord() {
	g, ok := c.byKey[c.currentKey]
	if !ok || len(g.Records) == 0 {
		c.currentRecord = 0
		return
	}
	if c.currentRecord < 0 {
		c.currentRecord = 0
	}
	if c.currentRecord > len(g.Records)-1 {
		c.currentRecord = len(g.Records) - 1
	}
}
