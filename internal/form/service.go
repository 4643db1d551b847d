package form

import (
	"context"
	"fmt"
	"sync"
)

// FormStore is the saved-form repository surface the service needs.
type FormStore interface {
	Recorder
	List() []SavedForm
	Get(id string) (SavedForm, bool)
}

// PathedExporter is an Exporter that also knows where it writes.
type PathedExporter interface {
	Exporter
	OutputPath() string
}

// Service orchestrates the form engine, the image store, the saved-form
// repository and the document exporter behind transport-agnostic
// request/result operations. Safe for concurrent use.
type Service struct {
	mu           sync.RWMutex
	questions    QuestionList
	sourceErrors []string

	images   ImageStore
	forms    FormStore
	exporter PathedExporter
	newID    IDGenerator
	now      Clock
}

// NewService wires the service's collaborators. newID and now may be nil to
// use the defaults.
func NewService(images ImageStore, forms FormStore, exporter PathedExporter, newID IDGenerator, now Clock) *Service {
	return &Service{
		images:   images,
		forms:    forms,
		exporter: exporter,
		newID:    newID,
		now:      now,
	}
}

// SetQuestions replaces the active question list, discarding any per-form
// state derived from the previous one.
func (s *Service) SetQuestions(questions QuestionList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = questions
}

// SetSourceErrors records the user-visible import failures to surface on
// the form page and in server info.
func (s *Service) SetSourceErrors(messages []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sourceErrors = messages
}

// Questions returns the active question list.
func (s *Service) Questions() QuestionList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questions
}

// SourceErrors returns the recorded import failure messages.
func (s *Service) SourceErrors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.sourceErrors...)
}

// ValidateQuestions checks an untrusted question document against the
// schema. Schema failures are reported in the result, not as a Go error.
func (s *Service) ValidateQuestions(req ValidateQuestionsRequest) (*ValidateQuestionsResult, error) {
	list, err := ParseQuestionList(req.Raw)
	if err != nil {
		return &ValidateQuestionsResult{Valid: false, Message: err.Error()}, nil
	}
	return &ValidateQuestionsResult{Valid: true, Count: len(list)}, nil
}

// SubmitForm runs one submission attempt against the active question list.
func (s *Service) SubmitForm(ctx context.Context, req SubmitFormRequest) (*SubmitFormResult, error) {
	s.mu.RLock()
	questions := s.questions
	s.mu.RUnlock()

	if len(questions) == 0 {
		return nil, fmt.Errorf("no question list loaded")
	}

	engine := NewEngine(questions, EngineDeps{
		Images:     s.images,
		Forms:      s.forms,
		Exporter:   s.exporter,
		NewID:      s.newID,
		Now:        s.now,
		SyncExport: req.WaitForExport,
	})
	for i, v := range req.Answers {
		engine.SetAnswer(i, v)
	}

	outcome := engine.Submit(ctx)
	if !outcome.OK {
		return &SubmitFormResult{
			Submitted:  false,
			FirstError: outcome.FirstError,
			Errors:     outcome.Errors,
		}, nil
	}

	result := &SubmitFormResult{
		Submitted:  true,
		FirstError: -1,
		FormID:     outcome.Form.ID,
		CreatedAt:  outcome.Form.CreatedAt,
		Answers:    outcome.Answers,
		ImageMap:   outcome.Form.ImageMap,
	}
	if s.exporter != nil {
		result.ExportPath = s.exporter.OutputPath()
	}
	return result, nil
}

// ListForms returns every saved submission, oldest first.
func (s *Service) ListForms() []SavedForm {
	return s.forms.List()
}

// LoadForm fetches a prior submission and restores its uploaded images into
// the corresponding answer slots.
func (s *Service) LoadForm(ctx context.Context, req LoadFormRequest) (*LoadFormResult, error) {
	saved, ok := s.forms.Get(req.ID)
	if !ok {
		return nil, fmt.Errorf("saved form %s not found", req.ID)
	}

	engine := NewEngine(saved.Questions, EngineDeps{Images: s.images})
	engine.Reset(saved.Questions, saved.Answers, saved.ImageMap)
	engine.Restore(ctx)

	values := make(map[int]Value, len(saved.Questions))
	for i := range saved.Questions {
		if v := engine.Answer(i); v.Kind() != ValueAbsent {
			values[i] = v
		}
	}

	return &LoadFormResult{Form: saved, Values: values}, nil
}

// GetImage retrieves a stored image payload by id. A missing id is
// signalled by ok=false, not an error.
func (s *Service) GetImage(id string) (payload string, ok bool, err error) {
	return s.images.Load(id)
}

// ServerInfo summarizes the running service for discovery tooling.
func (s *Service) ServerInfo(serverName, version string, tools []ToolInfo) *ServerInfoResult {
	s.mu.RLock()
	questionCount := len(s.questions)
	sourceErrors := append([]string(nil), s.sourceErrors...)
	s.mu.RUnlock()

	exportPath := ""
	if s.exporter != nil {
		exportPath = s.exporter.OutputPath()
	}

	return &ServerInfoResult{
		ServerName:     serverName,
		Version:        version,
		QuestionCount:  questionCount,
		SavedFormCount: len(s.forms.List()),
		ExportPath:     exportPath,
		SourceErrors:   sourceErrors,
		AvailableTools: tools,
	}
}
