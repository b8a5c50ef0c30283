package model

import "fmt"

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"            // Free text answer
	QuestionTypeSingleChoice   QuestionType = "single_choice"   // Exactly one option
	QuestionTypeMultipleChoice QuestionType = "multiple_choice" // Any number of options
	QuestionTypeLimitedChoice  QuestionType = "limited_choice"  // Up to Limit options
	QuestionTypeFile           QuestionType = "file"            // File upload
)

// QuestionTypes lists every type in selector order.
var QuestionTypes = []QuestionType{
	QuestionTypeText,
	QuestionTypeSingleChoice,
	QuestionTypeMultipleChoice,
	QuestionTypeLimitedChoice,
	QuestionTypeFile,
}

// ParseQuestionType validates a raw type value.
func ParseQuestionType(s string) (QuestionType, error) {
	for _, t := range QuestionTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown question type %q", s)
}

// IsChoice reports whether the type carries an option list.
func (t QuestionType) IsChoice() bool {
	switch t {
	case QuestionTypeSingleChoice, QuestionTypeMultipleChoice, QuestionTypeLimitedChoice:
		return true
	}
	return false
}

// Label is the human readable selector caption.
func (t QuestionType) Label() string {
	switch t {
	case QuestionTypeText:
		return "Text"
	case QuestionTypeSingleChoice:
		return "Single Choice"
	case QuestionTypeMultipleChoice:
		return "Multiple Choice"
	case QuestionTypeLimitedChoice:
		return "Limited Choice"
	case QuestionTypeFile:
		return "File"
	}
	return string(t)
}

// Choices is the payload of a choice-type question.
// Limit is only set for limited_choice.
type Choices struct {
	Options []string `json:"options" bson:"options"`
	Limit   int      `json:"limit,omitempty" bson:"limit,omitempty"`
}

// Question is one editable question of a survey draft.
// Index is assigned once at creation and is only used as a form field key.
type Question struct {
	Index    int          `json:"index" bson:"index"`
	Text     string       `json:"text" bson:"text"`
	Type     QuestionType `json:"type" bson:"type"`
	Required bool         `json:"required" bson:"required"`
	Choices  *Choices     `json:"choices,omitempty" bson:"choices,omitempty"` // choice types only
}

// Clone returns a deep copy.
func (q Question) Clone() Question {
	if q.Choices != nil {
		c := *q.Choices
		c.Options = append([]string(nil), q.Choices.Options...)
		q.Choices = &c
	}
	return q
}
