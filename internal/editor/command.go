package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"surveybuilder/internal/model"
)

var ErrUnknownCommand = errors.New("unknown editor command")

// Action names a user action posted by the editor page.
type Action string

const (
	ActionAddQuestion    Action = "add_question"
	ActionRemoveQuestion Action = "remove_question"
	ActionSetType        Action = "set_type"
	ActionAddOption      Action = "add_option"
	ActionRemoveOption   Action = "remove_option"
	ActionSave           Action = "save"
	ActionSubmit         Action = "submit"
)

// Command is a parsed action value such as "remove_option:3:1".
type Command struct {
	Action   Action
	Index    int
	Position int
	// Type is the target type for ActionSetType. Empty means "whatever the
	// question currently holds", which is what a posted form carries.
	Type model.QuestionType
}

// String renders the command back into its action value.
func (c Command) String() string {
	switch c.Action {
	case ActionRemoveQuestion, ActionSetType, ActionAddOption:
		return fmt.Sprintf("%s:%d", c.Action, c.Index)
	case ActionRemoveOption:
		return fmt.Sprintf("%s:%d:%d", c.Action, c.Index, c.Position)
	}
	return string(c.Action)
}

// ParseCommand parses an action value.
func ParseCommand(s string) (Command, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	c := Command{Action: Action(parts[0])}
	args := parts[1:]

	want := 0
	switch c.Action {
	case ActionAddQuestion, ActionSave, ActionSubmit:
	case ActionRemoveQuestion, ActionSetType, ActionAddOption:
		want = 1
	case ActionRemoveOption:
		want = 2
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
	}
	if len(args) != want {
		return Command{}, fmt.Errorf("%w: %q expects %d arguments", ErrUnknownCommand, s, want)
	}

	nums := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 0 {
			return Command{}, fmt.Errorf("%w: %q: bad argument %q", ErrUnknownCommand, s, a)
		}
		nums[i] = n
	}
	if want >= 1 {
		c.Index = nums[0]
	}
	if want == 2 {
		c.Position = nums[1]
	}
	return c, nil
}

// Apply runs a command against the editor. Save and submit do not mutate.
func Apply(e *Editor, c Command) error {
	switch c.Action {
	case ActionAddQuestion:
		e.AddQuestion()
		return nil
	case ActionRemoveQuestion:
		return e.RemoveQuestion(c.Index)
	case ActionSetType:
		t := c.Type
		if t == "" {
			q, err := e.Question(c.Index)
			if err != nil {
				return err
			}
			t = q.Type
		}
		return e.SetQuestionType(c.Index, t)
	case ActionAddOption:
		return e.AddOption(c.Index)
	case ActionRemoveOption:
		return e.RemoveOption(c.Index, c.Position)
	case ActionSave, ActionSubmit:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, c.Action)
}

// FromSurvey builds an editor holding the given survey, driving it through
// the same operations a user would.
func FromSurvey(s model.Survey) (*Editor, error) {
	e := New()
	e.SetDraft(model.Draft{
		Title:        s.Title,
		Description:  s.Description,
		RequireLogin: s.RequireLogin,
	})
	for n, sq := range s.Questions {
		i := e.AddQuestion()
		_ = e.SetText(i, sq.Text)
		_ = e.SetRequired(i, sq.Required)
		t := sq.Type
		if t == "" {
			t = model.QuestionTypeText
		}
		if err := e.SetQuestionType(i, t); err != nil {
			return nil, fmt.Errorf("question %d: %w", n+1, err)
		}
		if !t.IsChoice() {
			continue
		}
		for pos, opt := range sq.Options {
			if pos > 0 {
				_ = e.AddOption(i)
			}
			_ = e.SetOption(i, pos, opt)
		}
		if t == model.QuestionTypeLimitedChoice && sq.ChoiceLimit != 0 {
			if err := e.SetLimit(i, sq.ChoiceLimit); err != nil {
				return nil, fmt.Errorf("question %d: %w", n+1, err)
			}
		}
	}
	return e, nil
}

// ResetChangedTypes runs SetQuestionType on every question of posted whose
// type differs from the same question in stored, so a type picked in the
// selector starts from a fresh option list whatever action was posted.
// Questions stored does not hold are left alone.
func ResetChangedTypes(posted, stored *Editor) error {
	for _, q := range posted.questions {
		prev, err := stored.Question(q.Index)
		if err != nil || prev.Type == q.Type {
			continue
		}
		if err := posted.SetQuestionType(q.Index, q.Type); err != nil {
			return err
		}
	}
	return nil
}
