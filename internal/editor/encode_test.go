package editor

import (
	"errors"
	"net/url"
	"reflect"
	"testing"

	"surveybuilder/internal/model"
)

func limitedEditor(t *testing.T) (*Editor, int) {
	t.Helper()
	e := New()
	i := e.AddQuestion()
	if err := e.SetQuestionType(i, model.QuestionTypeLimitedChoice); err != nil {
		t.Fatalf("set type: %v", err)
	}
	_ = e.AddOption(i)
	_ = e.AddOption(i)
	return e, i
}

// TestEncodeOptionsShareOneName covers the repeated-name options array.
func TestEncodeOptionsShareOneName(t *testing.T) {
	e, i := limitedEditor(t)
	_ = e.SetOption(i, 0, "x")
	_ = e.SetOption(i, 2, "z")
	v := Encode(e)

	got := v["questions[0][options][]"]
	if !reflect.DeepEqual(got, []string{"x", "", "z"}) {
		t.Fatalf("unexpected options %v", got)
	}
	if v.Get("questions[0][limit]") != "1" {
		t.Fatalf("expected limit 1, got %q", v.Get("questions[0][limit]"))
	}
	if v.Get("questions[0][type]") != "limited_choice" {
		t.Fatalf("unexpected type %q", v.Get("questions[0][type]"))
	}
	if _, ok := v["questions[0][required]"]; ok {
		t.Fatalf("required must be absent when unchecked")
	}
}

// TestEncodeOmitsChoiceFieldsForText checks text/file questions.
func TestEncodeOmitsChoiceFieldsForText(t *testing.T) {
	e := New()
	i := e.AddQuestion()
	_ = e.SetRequired(i, true)
	_ = e.SetText(i, "Name?")
	v := Encode(e)
	if v.Get(FieldName(i, FieldRequired)) != CheckedValue {
		t.Fatalf("expected required=on")
	}
	if _, ok := v[OptionsFieldName(i)]; ok {
		t.Fatalf("text question must not post options")
	}
	if _, ok := v[FieldName(i, FieldLimit)]; ok {
		t.Fatalf("text question must not post a limit")
	}
}

// TestDecodeRoundTrip rebuilds an editor with gaps in the index sequence.
func TestDecodeRoundTrip(t *testing.T) {
	e := New()
	e.SetDraft(model.Draft{Title: "T", Description: "D", RequireLogin: true})
	e.AddQuestion()
	a := e.AddQuestion()
	b := e.AddQuestion()
	_ = e.RemoveQuestion(0)
	_ = e.SetText(a, "first")
	_ = e.SetQuestionType(b, model.QuestionTypeMultipleChoice)
	_ = e.SetOption(b, 0, "yes")
	_ = e.AddOption(b)

	back, err := Decode(Encode(e))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Counter() != 3 {
		t.Fatalf("expected counter 3, got %d", back.Counter())
	}
	if !reflect.DeepEqual(back.Questions(), e.Questions()) {
		t.Fatalf("questions differ:\n%+v\n%+v", back.Questions(), e.Questions())
	}
	if back.Draft() != e.Draft() {
		t.Fatalf("draft differs: %+v", back.Draft())
	}
}

// TestDecodeHonoursQuestionOrder keeps visual order independent of index order.
func TestDecodeHonoursQuestionOrder(t *testing.T) {
	v := url.Values{}
	v.Add(FieldQuestionOrder, "7")
	v.Add(FieldQuestionOrder, "2")
	v.Set("questions[2][text]", "two")
	v.Set("questions[7][text]", "seven")
	v.Set("questions[5][text]", "five")

	e, err := Decode(v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var order []int
	for _, q := range e.Questions() {
		order = append(order, q.Index)
	}
	if !reflect.DeepEqual(order, []int{7, 2, 5}) {
		t.Fatalf("unexpected order %v", order)
	}
	if e.Counter() != 8 {
		t.Fatalf("expected counter 8, got %d", e.Counter())
	}
}

// TestDecodeLimitDefaults falls back to 1 for missing or bad limits.
func TestDecodeLimitDefaults(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-3"} {
		v := url.Values{}
		v.Set("questions[0][type]", "limited_choice")
		v.Add("questions[0][options][]", "a")
		if raw != "" {
			v.Set("questions[0][limit]", raw)
		}
		e, err := Decode(v)
		if err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		q, _ := e.Question(0)
		if q.Choices.Limit != 1 {
			t.Fatalf("limit %q: expected 1, got %d", raw, q.Choices.Limit)
		}
	}
}

// TestDecodeSeedsEmptyOption gives a choice question posted without options one blank option.
func TestDecodeSeedsEmptyOption(t *testing.T) {
	v := url.Values{}
	v.Set("questions[0][type]", "multiple_choice")
	e, err := Decode(v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	q, _ := e.Question(0)
	if q.Choices == nil || len(q.Choices.Options) != 1 || q.Choices.Options[0] != "" {
		t.Fatalf("expected one empty option, got %+v", q.Choices)
	}
}

// TestDecodeRejectsUnknownType surfaces bad type values.
func TestDecodeRejectsUnknownType(t *testing.T) {
	v := url.Values{}
	v.Set("questions[0][type]", "rating")
	if _, err := Decode(v); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

// TestSubmissionDropsBlankOptions mirrors the form handler's view of the editor.
func TestSubmissionDropsBlankOptions(t *testing.T) {
	e, i := limitedEditor(t)
	_ = e.SetText(i, "Pick")
	_ = e.SetOption(i, 0, "a")
	_ = e.SetOption(i, 2, "  ")
	_ = e.SetLimit(i, 2)
	text := e.AddQuestion()
	_ = e.SetText(text, "Why?")

	s := Submission(e)
	if len(s.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(s.Questions))
	}
	if !reflect.DeepEqual(s.Questions[0].Options, []string{"a"}) || s.Questions[0].ChoiceLimit != 2 {
		t.Fatalf("unexpected first question %+v", s.Questions[0])
	}
	if s.Questions[1].Options != nil || s.Questions[1].ChoiceLimit != 0 {
		t.Fatalf("unexpected second question %+v", s.Questions[1])
	}
}

// TestFromSurveyRebuildsEditor drives a survey back through the operations.
func TestFromSurveyRebuildsEditor(t *testing.T) {
	s := model.Survey{
		Title: "Food",
		Questions: []model.SurveyQuestion{
			{Text: "Name", Type: model.QuestionTypeText, Required: true},
			{Text: "Pick two", Type: model.QuestionTypeLimitedChoice, Options: []string{"a", "b", "c"}, ChoiceLimit: 2},
		},
	}
	e, err := FromSurvey(s)
	if err != nil {
		t.Fatalf("from survey: %v", err)
	}
	if got := Submission(e); !reflect.DeepEqual(got, s) {
		t.Fatalf("round trip differs:\n%+v\n%+v", got, s)
	}
	if e.Counter() != 2 {
		t.Fatalf("expected counter 2, got %d", e.Counter())
	}
}
