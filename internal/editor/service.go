package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"qforge/internal/codec"
	"qforge/internal/export"
	"qforge/internal/generate"
	"qforge/internal/question"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrNoSelection     = errors.New("no record selected")
	ErrNoGenerator     = errors.New("generation backend not configured")
)

// State is the editing lifecycle of a session's selected record. DIRTY is
// transient: every field write reconciles synchronously, so observers only
// ever see NONE or PROJECTED.
type State string

const (
	StateNone      State = "NONE"
	StateProjected State = "PROJECTED"
)

// session owns one collection plus the projected field set. The mutex
// guards everything below it; the quiescence stamp is per-session, so one
// editor's backend-code typing never suppresses another's refresh.
type session struct {
	id string

	mu              sync.Mutex
	coll            *question.Collection
	fields          question.EditableFields
	language        string
	state           State
	backendEditedAt time.Time
}

// Service is the in-memory session registry. No cross-session persistence:
// a session lives until the process stops.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session

	rep        generate.Replicator
	quiescence time.Duration

	now   func() time.Time
	newID func() string
}

func NewService(rep generate.Replicator, quiescence time.Duration) *Service {
	return &Service{
		sessions:   make(map[string]*session),
		rep:        rep,
		quiescence: quiescence,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// GroupSummary is one tab of the session view.
type GroupSummary struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// View is the session snapshot returned by every state-changing call.
type View struct {
	SessionID    string                  `json:"session_id"`
	Groups       []GroupSummary          `json:"groups"`
	CurrentGroup string                  `json:"current_group"`
	CurrentIndex int                     `json:"current_index"`
	State        State                   `json:"state"`
	Fields       question.EditableFields `json:"fields"`
	Languages    []string                `json:"languages"`
}

// SelectionInput moves the selection. Group switches first, then an
// absolute record index, then a relative advance; nil fields are skipped.
type SelectionInput struct {
	Group   *string `json:"group"`
	Record  *int    `json:"record"`
	Advance *int    `json:"advance"`
}

// Create parses source text into a fresh session. Parse or shape failures
// create nothing.
func (s *Service) Create(ctx context.Context, sourceText string) (*View, error) {
	coll, err := parseCollection(sourceText)
	if err != nil {
		return nil, err
	}

	sess := &session{id: s.newID(), coll: coll}
	sess.project()
	// Snapshot before publishing; once the id is in the registry other
	// requests may lock the session.
	view := sess.view()

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return view, nil
}

// ReplaceSource reparses the session's source wholesale. On parse failure
// the previous collection and fields stay untouched.
func (s *Service) ReplaceSource(ctx context.Context, id, sourceText string) (*View, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	coll, err := parseCollection(sourceText)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.coll = coll
	sess.language = ""
	sess.project()
	return sess.view(), nil
}

// Get returns the current session snapshot.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// Select moves the group/record selection. Pending field state is already
// reconciled (writes are synchronous), so switching never discards edits.
func (s *Service) Select(ctx context.Context, id string, in SelectionInput) (*View, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if in.Group != nil {
		if !sess.coll.SelectGroup(*in.Group) {
			return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, *in.Group)
		}
	}
	if in.Record != nil {
		sess.coll.SelectRecord(*in.Record)
	}
	if in.Advance != nil {
		sess.coll.Advance(*in.Advance)
	}
	sess.language = ""
	sess.project()
	return sess.view(), nil
}

// Fields returns the projected field set of the selected record.
func (s *Service) Fields(ctx context.Context, id string) (question.EditableFields, error) {
	sess, err := s.session(id)
	if err != nil {
		return question.EditableFields{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.fields, nil
}

// UpdateFields applies one field mutation. On a language change the code
// buffers in the request belong to the previous language, so they are
// discarded and the fields re-project for the new language; the
// language-independent edits in the same request (texts, solution, test
// cases) still reconcile first, under the previous language's projected
// code. Any other change reconciles into the record synchronously.
// The backend-code refresh after a language change is suppressed while the
// session's quiescence window since the last backend-code keystroke is
// still open, so a derived decode never clobbers text mid-typing.
func (s *Service) UpdateFields(ctx context.Context, id string, f question.EditableFields) (question.EditableFields, error) {
	sess, err := s.session(id)
	if err != nil {
		return question.EditableFields{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	cur := sess.coll.CurrentRecord()
	if cur == nil {
		return question.EditableFields{}, ErrNoSelection
	}

	now := s.now()
	if f.SelectedLanguage != sess.fields.SelectedLanguage {
		keep := sess.fields
		keep.ShortText = f.ShortText
		keep.ProblemText = f.ProblemText
		keep.SolutionCode = f.SolutionCode
		keep.TestCases = f.TestCases
		// An empty backend buffer is skipped by the reconciler; the
		// projected one may be a suppressed buffer from yet another
		// language and must not land in this one's repository entry.
		keep.BackendCode = ""
		sess.coll.ReplaceCurrentRecord(question.Reconcile(cur, keep))

		sess.language = f.SelectedLanguage
		sess.project()
		if now.Sub(sess.backendEditedAt) < s.quiescence {
			sess.fields.BackendCode = f.BackendCode
		}
		return sess.fields, nil
	}

	if f.BackendCode != sess.fields.BackendCode {
		sess.backendEditedAt = now
	}
	rec := question.Reconcile(cur, f)
	sess.coll.ReplaceCurrentRecord(rec)

	sess.project()
	if now.Sub(sess.backendEditedAt) < s.quiescence {
		sess.fields.BackendCode = f.BackendCode
	}
	return sess.fields, nil
}

// Source renders the collection as pretty JSON per group, the live text
// view of the dataset.
func (s *Service) Source(ctx context.Context, id string) (map[string]string, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return export.JSONGroups(sess.coll)
}

// BatchResult summarizes a replication run. Completed counts the groups
// merged before any failure.
type BatchResult struct {
	Total     int      `json:"total"`
	Completed int      `json:"completed"`
	Groups    []string `json:"groups"`
	Error     string   `json:"error,omitempty"`
}

// Generate replicates every record of the base group sequentially, merging
// each generated group into the collection as it lands. The session stays
// usable during the run; a failure keeps all groups merged so far.
func (s *Service) Generate(ctx context.Context, id string) (*BatchResult, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if s.rep == nil {
		return nil, ErrNoGenerator
	}

	sess.mu.Lock()
	base, ok := sess.coll.Group(question.BaseGroupKey)
	var records []question.Record
	if ok {
		records = make([]question.Record, len(base.Records))
		for i, r := range base.Records {
			records[i] = r.Clone()
		}
	}
	sess.mu.Unlock()

	result := &BatchResult{Total: len(records)}
	sink := sinkFunc(func(key string, generated []question.Record) {
		sess.mu.Lock()
		sess.coll.MergeGeneratedGroup(key, generated)
		sess.project()
		sess.mu.Unlock()
		result.Completed++
		result.Groups = append(result.Groups, key)
	})

	if err := generate.NewRunner(s.rep).Run(ctx, records, sink, nil); err != nil {
		result.Error = err.Error()
		return result, err
	}
	return result, nil
}

type sinkFunc func(key string, records []question.Record)

func (f sinkFunc) MergeGeneratedGroup(key string, records []question.Record) { f(key, records) }

// ExportZip bundles the session's groups into the JSON archive.
func (s *Service) ExportZip(ctx context.Context, id string) ([]byte, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return export.ZipArchive(sess.coll)
}

// ExportFlatCSV renders the current group in the 19-column ingestion
// format.
func (s *Service) ExportFlatCSV(ctx context.Context, id, technology, topicTag, subTopicTag string) (string, error) {
	sess, err := s.session(id)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	g, ok := sess.coll.Group(sess.coll.CurrentGroupKey())
	if !ok {
		return "", ErrNoSelection
	}
	return export.FlatCSV(g.Records, technology, topicTag, subTopicTag), nil
}

// ExportMCQCSV renders the current group in the 13-column review format.
func (s *Service) ExportMCQCSV(ctx context.Context, id, topicTag, subTopicTag string) (string, error) {
	sess, err := s.session(id)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	g, ok := sess.coll.Group(sess.coll.CurrentGroupKey())
	if !ok {
		return "", ErrNoSelection
	}
	return export.MCQCSV(g.Records, topicTag, subTopicTag)
}

// ExportXLSX renders the whole collection as a review workbook.
func (s *Service) ExportXLSX(ctx context.Context, id string) ([]byte, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return export.QuestionsExcel(sess.coll)
}

func (s *Service) session(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func parseCollection(sourceText string) (*question.Collection, error) {
	v, err := codec.Parse(sourceText)
	if err != nil {
		return nil, err
	}
	return question.FromParsedValue(v)
}

// project refreshes the derived field set from the current selection,
// honoring a sticky language choice when the session has one.
func (sess *session) project() {
	rec := sess.coll.CurrentRecord()
	if rec == nil {
		sess.fields = question.EditableFields{}
		sess.state = StateNone
		return
	}
	if sess.language != "" {
		sess.fields = question.ProjectLanguage(rec, sess.language)
	} else {
		sess.fields = question.Project(rec)
		sess.language = sess.fields.SelectedLanguage
	}
	sess.state = StateProjected
}

// view snapshots the session; callers hold sess.mu.
func (sess *session) view() *View {
	groups := sess.coll.Groups()
	summaries := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, GroupSummary{Key: g.Key, Count: len(g.Records)})
	}
	return &View{
		SessionID:    sess.id,
		Groups:       summaries,
		CurrentGroup: sess.coll.CurrentGroupKey(),
		CurrentIndex: sess.coll.CurrentIndex(),
		State:        sess.state,
		Fields:       sess.fields,
		Languages:    question.Languages(sess.coll.CurrentRecord()),
	}
}
