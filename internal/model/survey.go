package model

// Draft holds the survey-level fields of an editor session
type Draft struct {
	Title        string `json:"title" bson:"title"`
	Description  string `json:"description" bson:"description"`
	RequireLogin bool   `json:"requireLogin" bson:"requireLogin"`
}

// Survey is what a submitted editor form describes
type Survey struct {
	Title        string           `json:"title" yaml:"title"`
	Description  string           `json:"description" yaml:"description"`
	RequireLogin bool             `json:"requireLogin" yaml:"requireLogin"`
	Questions    []SurveyQuestion `json:"questions" yaml:"questions"`
}

// SurveyQuestion is a question as the form-handling side sees it
type SurveyQuestion struct {
	Text        string       `json:"text" yaml:"text"`
	Type        QuestionType `json:"type" yaml:"type"`
	Required    bool         `json:"required" yaml:"required"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`         // choice types only
	ChoiceLimit int          `json:"choiceLimit,omitempty" yaml:"choiceLimit,omitempty"` // limited_choice only
}
