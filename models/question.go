package models

import (
	"time"

	"github.com/lib/pq"
)

// Question is the flattened projection of a question slide kept in the
// question bank. The clue list is the unique key; inserting a duplicate is
// a silent no-op.
type Question struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Question   pq.StringArray `json:"question" gorm:"type:text[];uniqueIndex"`
	Answer     string         `json:"answer"`
	Difficulty string         `json:"difficulty"`
	Tags       pq.StringArray `json:"tags" gorm:"type:text[]"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (Question) TableName() string { return "question" }
