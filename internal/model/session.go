package model

import "time"

// EditorSession is the persisted state of one survey editor.
// Counter is the next question index; it only grows.
type EditorSession struct {
	ID        string     `json:"id" bson:"_id"`
	Counter   int        `json:"counter" bson:"counter"`
	Draft     Draft      `json:"draft" bson:"draft"`
	Questions []Question `json:"questions" bson:"questions"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}
