// Package editor holds the survey editor model: an ordered arena of questions
// keyed by a creation-order index, plus the per-question option sub-editor.
//
// All mutations go through Editor methods. Rendering and form encoding are
// projections of the model and never mutate it.
package editor

import (
	"errors"
	"fmt"

	"surveybuilder/internal/model"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrNotChoiceType    = errors.New("question type has no options")
	ErrOptionNotFound   = errors.New("option not found")
	ErrInvalidLimit     = errors.New("choice limit must be a positive integer")
	ErrUnknownType      = errors.New("unknown question type")
	ErrDuplicateIndex   = errors.New("duplicate question index")
)

// DefaultLimit is the choice limit a limited_choice question starts with.
const DefaultLimit = 1

// Editor is one editing session. It is not safe for concurrent use; the
// service layer serializes access per session.
type Editor struct {
	counter   int
	draft     model.Draft
	questions []*model.Question
}

// New returns an empty editor whose first question gets index 0.
func New() *Editor {
	return &Editor{}
}

// Restore rebuilds an editor from persisted state. The counter is raised to
// stay ahead of every restored index.
func Restore(counter int, draft model.Draft, questions []model.Question) (*Editor, error) {
	e := &Editor{counter: counter, draft: draft}
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if q.Index < 0 {
			return nil, fmt.Errorf("%w: %d", ErrQuestionNotFound, q.Index)
		}
		if seen[q.Index] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateIndex, q.Index)
		}
		if _, err := model.ParseQuestionType(string(q.Type)); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, q.Type)
		}
		seen[q.Index] = true
		c := q.Clone()
		e.questions = append(e.questions, &c)
		if q.Index >= e.counter {
			e.counter = q.Index + 1
		}
	}
	if e.counter < 0 {
		e.counter = 0
	}
	return e, nil
}

// FromSession restores the editor stored in a session document.
func FromSession(s *model.EditorSession) (*Editor, error) {
	return Restore(s.Counter, s.Draft, s.Questions)
}

// Export copies the editor state into a session document.
func (e *Editor) Export(s *model.EditorSession) {
	s.Counter = e.counter
	s.Draft = e.draft
	s.Questions = e.Questions()
}

// Counter is the index the next AddQuestion call will assign.
func (e *Editor) Counter() int { return e.counter }

// Draft returns the survey-level fields.
func (e *Editor) Draft() model.Draft { return e.draft }

// SetDraft replaces the survey-level fields.
func (e *Editor) SetDraft(d model.Draft) { e.draft = d }

// Len is the number of live questions.
func (e *Editor) Len() int { return len(e.questions) }

// Questions returns copies of the live questions in visual order.
func (e *Editor) Questions() []model.Question {
	out := make([]model.Question, 0, len(e.questions))
	for _, q := range e.questions {
		out = append(out, q.Clone())
	}
	return out
}

// Question returns a copy of the live question with the given index.
func (e *Editor) Question(index int) (model.Question, error) {
	_, q, err := e.find(index)
	if err != nil {
		return model.Question{}, err
	}
	return q.Clone(), nil
}

// Position is the zero-based visual position of a live question.
func (e *Editor) Position(index int) (int, error) {
	pos, _, err := e.find(index)
	return pos, err
}

// AddQuestion appends a text question tagged with the current counter and
// advances the counter. It returns the assigned index.
func (e *Editor) AddQuestion() int {
	index := e.counter
	e.questions = append(e.questions, &model.Question{
		Index: index,
		Type:  model.QuestionTypeText,
	})
	e.counter++
	return index
}

// RemoveQuestion deletes one question and its options. Other indices and the
// counter are untouched.
func (e *Editor) RemoveQuestion(index int) error {
	pos, _, err := e.find(index)
	if err != nil {
		return err
	}
	copy(e.questions[pos:], e.questions[pos+1:])
	e.questions[len(e.questions)-1] = nil
	e.questions = e.questions[:len(e.questions)-1]
	return nil
}

// SetText sets the question text.
func (e *Editor) SetText(index int, text string) error {
	_, q, err := e.find(index)
	if err != nil {
		return err
	}
	q.Text = text
	return nil
}

// SetRequired sets the required flag.
func (e *Editor) SetRequired(index int, required bool) error {
	_, q, err := e.find(index)
	if err != nil {
		return err
	}
	q.Required = required
	return nil
}

// SetQuestionType switches a question to t. The previous options and limit
// are always discarded, even when t equals the current type.
func (e *Editor) SetQuestionType(index int, t model.QuestionType) error {
	if _, err := model.ParseQuestionType(string(t)); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	_, q, err := e.find(index)
	if err != nil {
		return err
	}
	q.Type = t
	q.Choices = nil
	if t.IsChoice() {
		q.Choices = &model.Choices{Options: []string{""}}
		if t == model.QuestionTypeLimitedChoice {
			q.Choices.Limit = DefaultLimit
		}
	}
	return nil
}

// AddOption appends one empty option. Existing options keep their values and order.
func (e *Editor) AddOption(index int) error {
	q, err := e.choices(index)
	if err != nil {
		return err
	}
	q.Choices.Options = append(q.Choices.Options, "")
	return nil
}

// RemoveOption deletes the option at position.
func (e *Editor) RemoveOption(index, position int) error {
	q, err := e.choices(index)
	if err != nil {
		return err
	}
	opts := q.Choices.Options
	if position < 0 || position >= len(opts) {
		return fmt.Errorf("%w: question %d position %d", ErrOptionNotFound, index, position)
	}
	q.Choices.Options = append(opts[:position:position], opts[position+1:]...)
	return nil
}

// SetOption sets the value of the option at position.
func (e *Editor) SetOption(index, position int, value string) error {
	q, err := e.choices(index)
	if err != nil {
		return err
	}
	if position < 0 || position >= len(q.Choices.Options) {
		return fmt.Errorf("%w: question %d position %d", ErrOptionNotFound, index, position)
	}
	q.Choices.Options[position] = value
	return nil
}

// SetLimit sets the choice limit of a limited_choice question.
func (e *Editor) SetLimit(index, limit int) error {
	q, err := e.choices(index)
	if err != nil {
		return err
	}
	if q.Type != model.QuestionTypeLimitedChoice {
		return fmt.Errorf("%w: %s has no limit", ErrNotChoiceType, q.Type)
	}
	if limit < 1 {
		return ErrInvalidLimit
	}
	q.Choices.Limit = limit
	return nil
}

func (e *Editor) find(index int) (int, *model.Question, error) {
	for i, q := range e.questions {
		if q.Index == index {
			return i, q, nil
		}
	}
	return -1, nil, fmt.Errorf("%w: %d", ErrQuestionNotFound, index)
}

func (e *Editor) choices(index int) (*model.Question, error) {
	_, q, err := e.find(index)
	if err != nil {
		return nil, err
	}
	if !q.Type.IsChoice() || q.Choices == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotChoiceType, q.Type)
	}
	return q, nil
}
