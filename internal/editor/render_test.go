package editor

import (
	"bytes"
	"strings"
	"testing"

	"surveybuilder/internal/model"
)

// TestBuildViewRecomputesOrdinals shows labels follow visual position.
func TestBuildViewRecomputesOrdinals(t *testing.T) {
	e := New()
	e.AddQuestion()
	e.AddQuestion()
	e.AddQuestion()
	_ = e.RemoveQuestion(0)

	v := BuildView(e, "s1", "/editor/s1")
	if len(v.Questions) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(v.Questions))
	}
	if v.Questions[0].Index != 1 || v.Questions[0].Ordinal != 1 {
		t.Fatalf("unexpected first block %+v", v.Questions[0])
	}
	if v.Questions[1].Index != 2 || v.Questions[1].Ordinal != 2 {
		t.Fatalf("unexpected second block %+v", v.Questions[1])
	}
	if v.Questions[1].OptionsID != "options-2" {
		t.Fatalf("unexpected options id %q", v.Questions[1].OptionsID)
	}
}

// TestRenderChoiceQuestion checks the option rows and the limit input.
func TestRenderChoiceQuestion(t *testing.T) {
	e := New()
	i := e.AddQuestion()
	_ = e.SetQuestionType(i, model.QuestionTypeLimitedChoice)
	_ = e.AddOption(i)
	_ = e.SetOption(i, 1, `<b>"hi"</b>`)

	var buf bytes.Buffer
	if err := Render(&buf, BuildView(e, "s1", "/editor/s1")); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if n := strings.Count(html, `name="questions[0][options][]"`); n != 2 {
		t.Fatalf("expected 2 option inputs, got %d", n)
	}
	if !strings.Contains(html, `name="questions[0][limit]" class="form-control" min="1" value="1"`) {
		t.Fatalf("expected limit input with value 1")
	}
	if !strings.Contains(html, `value="remove_option:0:1"`) {
		t.Fatalf("expected remove control for second option")
	}
	if strings.Contains(html, `<b>"hi"</b>`) {
		t.Fatalf("option value was not escaped")
	}
	if !strings.Contains(html, `id="questions-container"`) {
		t.Fatalf("missing questions container")
	}
}

// TestRenderTextQuestionHasNoOptions checks the empty options region.
func TestRenderTextQuestionHasNoOptions(t *testing.T) {
	e := New()
	e.AddQuestion()
	var buf bytes.Buffer
	if err := RenderQuestions(&buf, BuildView(e, "s1", "/editor/s1")); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "[options][]") || strings.Contains(html, "[limit]") {
		t.Fatalf("text question rendered option fields")
	}
	if !strings.Contains(html, "Question #1") {
		t.Fatalf("missing ordinal label")
	}
	if !strings.Contains(html, `<option value="text" selected>`) {
		t.Fatalf("expected text selected by default")
	}
}
