package editor

import (
	"fmt"
	"html/template"
	"io"

	"surveybuilder/internal/model"
)

// ContainerID is the element the question blocks are rendered into.
const ContainerID = "questions-container"

// View is the render-ready projection of an editor.
type View struct {
	SessionID   string
	FormAction  string
	Counter     int
	Draft       model.Draft
	ContainerID string
	Questions   []QuestionView
	Fields      map[string]string
}

// QuestionView is one question block. Ordinal is the 1-based visual position
// and is recomputed on every projection.
type QuestionView struct {
	Index        int
	Ordinal      int
	Text         string
	Type         model.QuestionType
	Required     bool
	TextName     string
	TypeName     string
	RequiredName string
	RequiredID   string
	OptionsID    string
	OptionsName  string
	LimitName    string
	TypeOptions  []TypeOption
	IsChoice     bool
	HasLimit     bool
	Limit        int
	Options      []OptionView

	RemoveAction    string
	SetTypeAction   string
	AddOptionAction string
}

// TypeOption is one entry of the type selector.
type TypeOption struct {
	Value    model.QuestionType
	Label    string
	Selected bool
}

// OptionView is one option row. The first row carries the add control, the
// others a remove control.
type OptionView struct {
	Position     int
	Value        string
	Removable    bool
	RemoveAction string
}

// BuildView projects the editor into a View.
func BuildView(e *Editor, sessionID, formAction string) View {
	v := View{
		SessionID:   sessionID,
		FormAction:  formAction,
		Counter:     e.Counter(),
		Draft:       e.Draft(),
		ContainerID: ContainerID,
		Questions:   make([]QuestionView, 0, e.Len()),
		Fields: map[string]string{
			"title":        FieldTitle,
			"description":  FieldDescription,
			"requireLogin": FieldRequireLogin,
			"counter":      FieldCounter,
			"order":        FieldQuestionOrder,
			"action":       FieldAction,
		},
	}
	for pos, q := range e.questions {
		v.Questions = append(v.Questions, buildQuestionView(q, pos))
	}
	return v
}

func buildQuestionView(q *model.Question, pos int) QuestionView {
	qv := QuestionView{
		Index:           q.Index,
		Ordinal:         pos + 1,
		Text:            q.Text,
		Type:            q.Type,
		Required:        q.Required,
		TextName:        FieldName(q.Index, FieldText),
		TypeName:        FieldName(q.Index, FieldType),
		RequiredName:    FieldName(q.Index, FieldRequired),
		RequiredID:      fmt.Sprintf("required-%d", q.Index),
		OptionsID:       fmt.Sprintf("options-%d", q.Index),
		OptionsName:     OptionsFieldName(q.Index),
		LimitName:       FieldName(q.Index, FieldLimit),
		IsChoice:        q.Type.IsChoice() && q.Choices != nil,
		RemoveAction:    Command{Action: ActionRemoveQuestion, Index: q.Index}.String(),
		SetTypeAction:   Command{Action: ActionSetType, Index: q.Index}.String(),
		AddOptionAction: Command{Action: ActionAddOption, Index: q.Index}.String(),
	}
	for _, t := range model.QuestionTypes {
		qv.TypeOptions = append(qv.TypeOptions, TypeOption{Value: t, Label: t.Label(), Selected: t == q.Type})
	}
	if !qv.IsChoice {
		return qv
	}
	for i, opt := range q.Choices.Options {
		qv.Options = append(qv.Options, OptionView{
			Position:     i,
			Value:        opt,
			Removable:    i > 0,
			RemoveAction: Command{Action: ActionRemoveOption, Index: q.Index, Position: i}.String(),
		})
	}
	if q.Type == model.QuestionTypeLimitedChoice {
		qv.HasLimit = true
		qv.Limit = q.Choices.Limit
	}
	return qv
}

// Render writes the full editor page.
func Render(w io.Writer, v View) error {
	return pageTemplate.ExecuteTemplate(w, "page", v)
}

// RenderQuestions writes only the question container, used for live updates.
func RenderQuestions(w io.Writer, v View) error {
	return pageTemplate.ExecuteTemplate(w, "questions", v)
}

var pageTemplate = template.Must(template.New("editor").Parse(`
{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Create survey</title>
</head>
<body>
<form method="post" action="{{.FormAction}}" id="survey-form" data-session="{{.SessionID}}">
  <input type="hidden" name="{{index .Fields "counter"}}" value="{{.Counter}}">
  {{/* first submit button in the form: Enter in a text field saves */}}
  <button type="submit" name="{{index .Fields "action"}}" value="save" tabindex="-1" aria-hidden="true" style="position:absolute;left:-9999px" formnovalidate></button>
  <div class="mb-3">
    <label class="form-label" for="survey-title">Title</label>
    <input type="text" id="survey-title" name="{{index .Fields "title"}}" class="form-control" value="{{.Draft.Title}}" required>
  </div>
  <div class="mb-3">
    <label class="form-label" for="survey-description">Description</label>
    <textarea id="survey-description" name="{{index .Fields "description"}}" class="form-control">{{.Draft.Description}}</textarea>
  </div>
  <div class="form-check mb-3">
    <input type="checkbox" id="require-login" name="{{index .Fields "requireLogin"}}" class="form-check-input"{{if .Draft.RequireLogin}} checked{{end}}>
    <label class="form-check-label" for="require-login">Require login</label>
  </div>
  {{template "questions" .}}
  <button type="submit" class="btn btn-secondary" name="{{index .Fields "action"}}" value="add_question" formnovalidate>Add question</button>
  <button type="submit" class="btn btn-outline-primary" name="{{index .Fields "action"}}" value="save" formnovalidate>Save draft</button>
  <button type="submit" class="btn btn-primary" name="{{index .Fields "action"}}" value="submit">Create survey</button>
</form>
</body>
</html>
{{end}}

{{define "questions"}}<div id="{{.ContainerID}}">
{{range .Questions}}{{template "question" .}}{{end}}</div>
{{end}}

{{define "question"}}<div class="card mb-3 question-card" data-qid="{{.Index}}">
  <input type="hidden" name="question_order" value="{{.Index}}">
  <div class="card-header d-flex justify-content-between align-items-center">
    <h5 class="mb-0">Question #{{.Ordinal}}</h5>
    <button type="submit" class="btn btn-danger btn-sm" name="action" value="{{.RemoveAction}}" formnovalidate>Remove</button>
  </div>
  <div class="card-body">
    <div class="row mb-3">
      <div class="col-md-6">
        <label class="form-label">Question Text</label>
        <input type="text" name="{{.TextName}}" class="form-control" value="{{.Text}}" required>
      </div>
      <div class="col-md-3">
        <label class="form-label">Question Type</label>
        <select name="{{.TypeName}}" class="form-select question-type">
          {{range .TypeOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
          {{end}}
        </select>
        <button type="submit" class="btn btn-link btn-sm" name="action" value="{{.SetTypeAction}}" formnovalidate>Apply type</button>
      </div>
      <div class="col-md-3">
        <div class="form-check mt-4 pt-2">
          <input type="checkbox" name="{{.RequiredName}}" id="{{.RequiredID}}" class="form-check-input"{{if .Required}} checked{{end}}>
          <label class="form-check-label" for="{{.RequiredID}}">Required</label>
        </div>
      </div>
    </div>
    <div class="question-options" id="{{.OptionsID}}">
    {{if .IsChoice}}
      <div class="mb-3">
        <label class="form-label">Answer Options</label>
        <div class="options-list">
        {{$q := .}}{{range .Options}}
          <div class="input-group mb-2">
            <input type="text" name="{{$q.OptionsName}}" class="form-control" value="{{.Value}}">
            {{if .Removable}}<button type="submit" class="btn btn-outline-danger" name="action" value="{{.RemoveAction}}" formnovalidate>&times;</button>
            {{else}}<button type="submit" class="btn btn-outline-secondary" name="action" value="{{$q.AddOptionAction}}" formnovalidate>+</button>
            {{end}}
          </div>
        {{else}}
          <button type="submit" class="btn btn-outline-secondary" name="action" value="{{.AddOptionAction}}" formnovalidate>+</button>
        {{end}}
        </div>
      </div>
      {{if .HasLimit}}
      <div class="col-md-3">
        <label class="form-label">Choice Limit</label>
        <input type="number" name="{{.LimitName}}" class="form-control" min="1" value="{{.Limit}}">
      </div>
      {{end}}
    {{end}}
    </div>
  </div>
</div>
{{end}}
`))
