package form

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
)

// requiredMessage is the per-field error for an unanswered required
// question.
const requiredMessage = "This field is required"

// ImageStore persists uploaded image payloads.
type ImageStore interface {
	Save(payload string) (id string, err error)
	Load(id string) (payload string, ok bool, err error)
}

// Recorder appends completed submissions to durable storage.
type Recorder interface {
	Append(f SavedForm) error
}

// Exporter renders a completed submission into a downloadable document.
type Exporter interface {
	Export(questions QuestionList, answers map[int]Value, imageMap map[int]string) (path string, err error)
}

// IDGenerator produces fresh unique identifiers.
type IDGenerator func() string

// Clock supplies the current time.
type Clock func() time.Time

// EngineDeps are the capabilities an Engine drives. NewID and Now default
// to uuid generation and time.Now when unset; OnSubmit is an optional
// completion callback invoked with the cleaned answers after a successful
// submission. SyncExport makes Submit wait for the document export instead
// of detaching it, for callers whose response hands out the artifact.
type EngineDeps struct {
	Images     ImageStore
	Forms      Recorder
	Exporter   Exporter
	NewID      IDGenerator
	Now        Clock
	OnSubmit   func(answers map[int]Value)
	SyncExport bool
}

// Engine holds the transient answer state for one questionnaire and drives
// validation, image persistence, submission recording and document export.
// None of its operations return a Go error: failures are represented as
// per-field error messages or logged diagnostics.
type Engine struct {
	deps      EngineDeps
	questions QuestionList

	values   map[int]Value
	imageMap map[int]string
	errors   map[int]string
	saving   bool
}

// NewEngine creates an engine for the given question list.
func NewEngine(questions QuestionList, deps EngineDeps) *Engine {
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	e := &Engine{deps: deps}
	e.Reset(questions, nil, nil)
	return e
}

// Reset discards all current values, errors and the image map and re-seeds
// the engine from new initial data. Called whenever the question list or
// the initial value/image map changes, so stale answers never bleed across
// unrelated question sets.
func (e *Engine) Reset(questions QuestionList, initialValues map[int]Value, initialImageMap map[int]string) {
	e.questions = questions
	e.values = make(map[int]Value, len(initialValues))
	for i, v := range initialValues {
		e.values[i] = v
	}
	e.imageMap = make(map[int]string, len(initialImageMap))
	for i, id := range initialImageMap {
		e.imageMap[i] = id
	}
	e.errors = make(map[int]string)
	e.saving = false
}

// Restore re-hydrates previously uploaded images into the live answer
// state: every image-map entry is fetched from the image store and
// substituted into its answer slot as a file value. A missing id leaves
// that slot unset rather than failing the whole restore.
func (e *Engine) Restore(ctx context.Context) {
	indexes := make([]int, 0, len(e.imageMap))
	for i := range e.imageMap {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	for _, i := range indexes {
		if ctx.Err() != nil {
			return
		}
		payload, ok, err := e.deps.Images.Load(e.imageMap[i])
		if err != nil {
			log.Printf("restore image for question %d: %v", i, err)
			continue
		}
		if !ok {
			continue
		}
		e.values[i] = FileValue(payload)
	}
}

// Questions returns the active question list.
func (e *Engine) Questions() QuestionList { return e.questions }

// SetAnswer unconditionally overwrites the answer at index. No validation
// happens on entry.
func (e *Engine) SetAnswer(index int, v Value) {
	e.values[index] = v
}

// Answer returns the current answer at index.
func (e *Engine) Answer(index int) Value {
	return e.values[index]
}

// Errors returns a copy of the current per-field error map.
func (e *Engine) Errors() map[int]string {
	out := make(map[int]string, len(e.errors))
	for i, msg := range e.errors {
		out[i] = msg
	}
	return out
}

// Saving reports whether a submit is in flight. Advisory only: re-entrant
// submits are not hard-blocked.
func (e *Engine) Saving() bool { return e.saving }

// Validate rebuilds the error map from the current answers and returns the
// lowest index carrying an error. ok is false when any required question is
// unanswered.
func (e *Engine) Validate() (firstError int, ok bool) {
	e.errors = make(map[int]string)
	firstError = -1
	for i, q := range e.questions {
		if !q.Required {
			continue
		}
		if e.values[i].IsEmpty() {
			e.errors[i] = requiredMessage
			if firstError == -1 {
				firstError = i
			}
		}
	}
	return firstError, firstError == -1
}

// SubmitOutcome reports the result of a Submit call. On validation failure
// OK is false and FirstError indexes the question the caller should bring
// into view. On success Form is the appended record and Answers the cleaned
// answer map.
type SubmitOutcome struct {
	OK         bool
	FirstError int
	Errors     map[int]string
	Form       SavedForm
	Answers    map[int]Value
}

// Submit validates the current answers and, when they pass, persists file
// answers to the image store, appends a SavedForm to the repository, runs
// the document export (detached unless SyncExport is set) and invokes the
// completion callback with the cleaned answers. On validation failure
// nothing is persisted. The saving flag is reset on every exit path.
func (e *Engine) Submit(ctx context.Context) SubmitOutcome {
	e.saving = true
	defer func() { e.saving = false }()

	if firstError, ok := e.Validate(); !ok {
		return SubmitOutcome{OK: false, FirstError: firstError, Errors: e.Errors()}
	}

	// Persist file answers and replace them with image-store ids. The raw
	// payload never enters the serialized answer map.
	newImageMap := make(map[int]string, len(e.imageMap))
	for i, id := range e.imageMap {
		newImageMap[i] = id
	}
	cleanAnswers := make(map[int]Value, len(e.values))
	for i, v := range e.values {
		cleanAnswers[i] = v
	}

	for _, i := range sortedKeys(e.values) {
		v := e.values[i]
		if v.Kind() != ValueFile {
			continue
		}
		id, err := e.deps.Images.Save(v.File())
		if err != nil {
			log.Printf("persist image for question %d: %v", i, err)
			delete(cleanAnswers, i)
			continue
		}
		newImageMap[i] = id
		delete(cleanAnswers, i)
	}
	e.imageMap = newImageMap

	saved := SavedForm{
		ID:        e.deps.NewID(),
		CreatedAt: e.deps.Now().UnixMilli(),
		Questions: e.questions,
		Answers:   cleanAnswers,
		ImageMap:  newImageMap,
	}
	if err := e.deps.Forms.Append(saved); err != nil {
		log.Printf("persist submission %s: %v", saved.ID, err)
	}

	// Export failures are logged, never joined back into the submit
	// result. Detached by default; SyncExport callers wait so the artifact
	// exists before they answer.
	if e.deps.Exporter != nil {
		questions := e.questions
		runExport := func() {
			if _, err := e.deps.Exporter.Export(questions, cleanAnswers, newImageMap); err != nil {
				log.Printf("export submission %s: %v", saved.ID, err)
			}
		}
		if e.deps.SyncExport {
			runExport()
		} else {
			go runExport()
		}
	}

	if e.deps.OnSubmit != nil {
		e.deps.OnSubmit(cleanAnswers)
	}

	return SubmitOutcome{OK: true, FirstError: -1, Form: saved, Answers: cleanAnswers}
}

func sortedKeys(m map[int]Value) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
