package models

import (
	"time"

	"gorm.io/datatypes"
)

// Quiz is a persisted quiz. Blocks holds the fully expanded slide deck as a
// single JSONB document; it is only ever rewritten whole. Version guards
// those rewrites against concurrent writers.
type Quiz struct {
	ID        uint                        `json:"id" gorm:"primaryKey"`
	Title     string                      `json:"title" gorm:"uniqueIndex;not null"`
	Date      string                      `json:"date"`
	Host      string                      `json:"host"`
	Blocks    datatypes.JSONType[[]Block] `json:"blocks" gorm:"type:jsonb"`
	Version   int                         `json:"-" gorm:"not null;default:0"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (Quiz) TableName() string { return "quiz" }

// QuizSummary is the listing projection returned by GET /quiz.
type QuizSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}
