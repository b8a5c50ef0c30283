package editor

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"surveybuilder/internal/model"
)

// Form field names shared by the renderer, the encoder and the decoder.
const (
	FieldText     = "text"
	FieldType     = "type"
	FieldRequired = "required"
	FieldOptions  = "options"
	FieldLimit    = "limit"

	FieldTitle         = "survey_title"
	FieldDescription   = "survey_description"
	FieldRequireLogin  = "require_login"
	FieldCounter       = "counter"
	FieldQuestionOrder = "question_order"
	FieldAction        = "action"

	// CheckedValue is what browsers post for a checked checkbox without a value.
	CheckedValue = "on"
)

// FieldName returns questions[<index>][<field>].
func FieldName(index int, field string) string {
	return fmt.Sprintf("questions[%d][%s]", index, field)
}

// OptionsFieldName returns the repeated option name questions[<index>][options][].
func OptionsFieldName(index int) string {
	return FieldName(index, FieldOptions) + "[]"
}

var questionField = regexp.MustCompile(`^questions\[(\d+)\]\[(text|type|required|limit|options)\](\[\])?$`)

// Encode serializes the editor the way the rendered form submits it.
// Options keep their order; required and limit appear only when applicable.
func Encode(e *Editor) url.Values {
	v := url.Values{}
	d := e.Draft()
	v.Set(FieldTitle, d.Title)
	v.Set(FieldDescription, d.Description)
	if d.RequireLogin {
		v.Set(FieldRequireLogin, CheckedValue)
	}
	v.Set(FieldCounter, strconv.Itoa(e.Counter()))
	for _, q := range e.questions {
		v.Add(FieldQuestionOrder, strconv.Itoa(q.Index))
		v.Set(FieldName(q.Index, FieldText), q.Text)
		v.Set(FieldName(q.Index, FieldType), string(q.Type))
		if q.Required {
			v.Set(FieldName(q.Index, FieldRequired), CheckedValue)
		}
		if q.Choices == nil || !q.Type.IsChoice() {
			continue
		}
		name := OptionsFieldName(q.Index)
		for _, opt := range q.Choices.Options {
			v.Add(name, opt)
		}
		if q.Type == model.QuestionTypeLimitedChoice {
			v.Set(FieldName(q.Index, FieldLimit), strconv.Itoa(q.Choices.Limit))
		}
	}
	return v
}

// Decode rebuilds an editor from a posted form. Index gaps are expected.
// Question order follows question_order, then ascending index for anything
// not listed there. A choice question keeps exactly the options posted for it,
// or one empty option when none were posted.
func Decode(v url.Values) (*Editor, error) {
	indices := map[int]bool{}
	for key := range v {
		m := questionField.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		if m[2] == FieldOptions && m[3] == "" {
			continue
		}
		i, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("bad question index in %q: %w", key, err)
		}
		indices[i] = true
	}

	order := make([]int, 0, len(indices))
	listed := map[int]bool{}
	for _, raw := range v[FieldQuestionOrder] {
		i, err := strconv.Atoi(raw)
		if err != nil || !indices[i] || listed[i] {
			continue
		}
		listed[i] = true
		order = append(order, i)
	}
	rest := make([]int, 0, len(indices))
	for i := range indices {
		if !listed[i] {
			rest = append(rest, i)
		}
	}
	sort.Ints(rest)
	order = append(order, rest...)

	questions := make([]model.Question, 0, len(order))
	for _, i := range order {
		q, err := decodeQuestion(v, i)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	counter, _ := strconv.Atoi(v.Get(FieldCounter))
	draft := model.Draft{
		Title:        v.Get(FieldTitle),
		Description:  v.Get(FieldDescription),
		RequireLogin: v.Get(FieldRequireLogin) != "",
	}
	return Restore(counter, draft, questions)
}

func decodeQuestion(v url.Values, i int) (model.Question, error) {
	q := model.Question{
		Index:    i,
		Text:     v.Get(FieldName(i, FieldText)),
		Type:     model.QuestionTypeText,
		Required: v.Get(FieldName(i, FieldRequired)) != "",
	}
	if raw := v.Get(FieldName(i, FieldType)); raw != "" {
		t, err := model.ParseQuestionType(raw)
		if err != nil {
			return q, fmt.Errorf("%w: question %d: %s", ErrUnknownType, i, raw)
		}
		q.Type = t
	}
	if !q.Type.IsChoice() {
		return q, nil
	}
	q.Choices = &model.Choices{Options: append([]string{}, v[OptionsFieldName(i)]...)}
	if len(q.Choices.Options) == 0 {
		q.Choices.Options = []string{""}
	}
	if q.Type == model.QuestionTypeLimitedChoice {
		q.Choices.Limit = parseLimit(v.Get(FieldName(i, FieldLimit)))
	}
	return q, nil
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultLimit
	}
	return n
}

// Submission is the survey a form handler builds from the encoded editor:
// blank options are dropped and the limit is kept only for limited_choice.
func Submission(e *Editor) model.Survey {
	d := e.Draft()
	s := model.Survey{
		Title:        d.Title,
		Description:  d.Description,
		RequireLogin: d.RequireLogin,
		Questions:    make([]model.SurveyQuestion, 0, len(e.questions)),
	}
	for _, q := range e.questions {
		sq := model.SurveyQuestion{
			Text:     q.Text,
			Type:     q.Type,
			Required: q.Required,
		}
		if q.Type.IsChoice() && q.Choices != nil {
			for _, opt := range q.Choices.Options {
				if strings.TrimSpace(opt) != "" {
					sq.Options = append(sq.Options, opt)
				}
			}
			if q.Type == model.QuestionTypeLimitedChoice {
				sq.ChoiceLimit = q.Choices.Limit
			}
		}
		s.Questions = append(s.Questions, sq)
	}
	return s
}
