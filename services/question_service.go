package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quiqz/models"
)

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// CreateQuestionRequest is the payload of POST /question.
type CreateQuestionRequest struct {
	Text       string   `json:"text" binding:"required"`
	Answer     string   `json:"answer" binding:"required"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
}

// List returns every question row.
func (s *QuestionService) List(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).Order("id").Find(&questions).Error
	return questions, err
}

// Insert adds one question to the bank. A duplicate clue list is silently
// ignored, never an error.
func (s *QuestionService) Insert(ctx context.Context, q *models.Question) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "question"}},
			DoNothing: true,
		}).
		Create(q).Error
}

// Create inserts a single authored question.
func (s *QuestionService) Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error) {
	q := models.Question{
		Question:   []string{req.Text},
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
		Tags:       req.Tags,
	}
	if err := s.Insert(ctx, &q); err != nil {
		return nil, err
	}
	return &q, nil
}
