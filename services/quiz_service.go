package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"quiqz/models"
	"quiqz/utils"
)

// connectionPrompt is the fixed closing question of a connection round.
const connectionPrompt = "What connects answers 1–6?"

// whoAmIPoints maps a cumulative-clue slide's position to its point label.
var whoAmIPoints = [...]string{"5", "3", "2", "1"}

type QuizService struct {
	db        *gorm.DB
	questions *QuestionService
}

func NewQuizService(db *gorm.DB, questions *QuestionService) *QuizService {
	return &QuizService{db: db, questions: questions}
}

// HalfRequest is one of the two top-level sections of a submission.
type HalfRequest struct {
	Blocks []models.Block `json:"blocks"`
}

// QuizDataRequest is the authoring payload accepted by POST /quiz/load.
type QuizDataRequest struct {
	Title      string      `json:"title" binding:"required"`
	Date       string      `json:"date"`
	Host       string      `json:"host"`
	FirstHalf  HalfRequest `json:"firstHalf"`
	SecondHalf HalfRequest `json:"secondHalf"`
}

// deckBuilder expands a submission into the final slide deck. Every question
// slide met during expansion with non-empty question content is handed to
// onQuestion as a side effect of traversal.
type deckBuilder struct {
	onQuestion func(models.Question)
}

func (b *deckBuilder) recordQuestion(slide models.Slide) {
	if slide.Type != models.SlideQuestion || len(slide.Question) == 0 {
		return
	}
	b.onQuestion(models.Question{
		Question:   append([]string{}, slide.Question...),
		Answer:     slide.Answer,
		Difficulty: slide.Difficulty,
		Tags:       append([]string{}, slide.Tags...),
	})
}

// buildDeck produces the ordered block list of the final deck: overview
// block, both expanded halves, globally assigned slide IDs.
func (b *deckBuilder) buildDeck(req *QuizDataRequest) []models.Block {
	blocks := []models.Block{b.overviewBlock(req)}
	blocks = append(blocks, b.expandHalf(req.FirstHalf.Blocks, false)...)
	blocks = append(blocks, b.expandHalf(req.SecondHalf.Blocks, true)...)
	assignSlideIDs(blocks)
	return blocks
}

// overviewBlock summarizes every non-static round of both halves on a single
// leading title slide.
func (b *deckBuilder) overviewBlock(req *QuizDataRequest) models.Block {
	var parts []string
	for _, half := range [][]models.Block{req.FirstHalf.Blocks, req.SecondHalf.Blocks} {
		for _, block := range half {
			if block.IsStatic() {
				continue
			}
			part := block.Type
			if block.Topic != "" {
				part += ": " + block.Topic
			}
			parts = append(parts, part)
		}
	}

	return models.Block{
		Type: models.BlockStatic,
		Slides: []models.Slide{{
			Type:          models.SlideTitle,
			Title:         req.Title,
			Text:          strings.Join(parts, " | "),
			CornerElement: "Kvízmester: " + req.Host,
		}},
	}
}

// expandHalf expands one half's blocks. The second half opens with an
// intermission block and interleaves the half's cumulative-clue slides: the
// first one right after the intermission, then one after each subsequent
// block until exhausted. Each half closes with a solutions block.
func (b *deckBuilder) expandHalf(half []models.Block, secondHalf bool) []models.Block {
	var pending []models.Slide
	for _, block := range half {
		if block.IsWhoAmIRound() {
			pending = append(pending, b.whoAmISlides(block)...)
		}
	}

	var out []models.Block
	placeNext := func() {
		if len(pending) == 0 {
			return
		}
		out = append(out, models.Block{
			Type:   models.BlockStatic,
			Slides: []models.Slide{pending[0]},
		})
		pending = pending[1:]
	}

	if secondHalf {
		out = append(out, intermissionBlock())
		placeNext()
	}

	for _, block := range half {
		if block.IsWhoAmIRound() {
			// Consumed above; its slides ride between the other blocks.
			continue
		}
		out = append(out, b.expandBlock(block))
		placeNext()
	}

	out = append(out, solutionsBlock())
	return out
}

// expandBlock turns one authored block into its on-deck form. Static blocks
// pass through untouched; round blocks get a leading title slide and any
// round-specific decoration. A block without slides expands to its title
// slide alone.
func (b *deckBuilder) expandBlock(block models.Block) models.Block {
	out := block
	if block.IsStatic() {
		out.Slides = append([]models.Slide{}, block.Slides...)
		for _, slide := range out.Slides {
			b.recordQuestion(slide)
		}
		return out
	}

	slides := []models.Slide{blockTitleSlide(block)}
	connection := block.IsConnectionRound()
	for i, slide := range block.Slides {
		if connection {
			slide.PointLabel = connectionBonus(i)
		}
		slides = append(slides, slide)
		b.recordQuestion(slide)
	}

	if connection && block.BlockAnswer != "" {
		closing := models.Slide{
			Type:     models.SlideQuestion,
			Question: []string{connectionPrompt},
			Answer:   block.BlockAnswer,
		}
		slides = append(slides, closing)
		b.recordQuestion(closing)
	}

	out.Slides = slides
	return out
}

// whoAmISlides generates one question slide per clue prefix of a
// cumulative-clue round; slide k reveals clues 0..k and carries the point
// label for position k. The round's aggregate question is recorded once,
// with the full authored clue list.
func (b *deckBuilder) whoAmISlides(block models.Block) []models.Slide {
	clues := block.BlockQuestion
	if len(clues) == 0 {
		slog.Warn("cumulative-clue round has no clues, dropping it from the deck",
			"type", block.Type, "answer", block.BlockAnswer)
		return nil
	}
	if len(clues) > len(whoAmIPoints) {
		// The point table has four entries; extra clues have no defined value.
		slog.Warn("cumulative-clue round has too many clues, capping",
			"type", block.Type, "clues", len(clues), "max", len(whoAmIPoints))
		clues = clues[:len(whoAmIPoints)]
	}

	slides := make([]models.Slide, 0, len(clues))
	for k := range clues {
		slides = append(slides, models.Slide{
			Type:          models.SlideQuestion,
			QuestionTitle: block.Type,
			Question:      append([]string{}, clues[:k+1]...),
			Answer:        block.BlockAnswer,
			PointLabel:    whoAmIPoints[k],
			Background:    block.Background,
			TextColour:    block.TextColour,
		})
	}

	b.onQuestion(models.Question{
		Question: append([]string{}, block.BlockQuestion...),
		Answer:   block.BlockAnswer,
	})
	return slides
}

// blockTitleSlide is the synthetic slide opening a round block.
func blockTitleSlide(block models.Block) models.Slide {
	return models.Slide{
		Type:  models.SlideTitle,
		Title: block.Type,
		Text:  block.Topic,
	}
}

// connectionBonus returns the bonus label for a connection-round slide by
// position: slides 1, 2 and 3 are worth 3, 2 and 1 extra points.
func connectionBonus(position int) string {
	switch position {
	case 1:
		return "3"
	case 2:
		return "2"
	case 3:
		return "1"
	}
	return ""
}

func intermissionBlock() models.Block {
	checking := false
	return models.Block{
		Type: models.BlockStatic,
		Slides: []models.Slide{{
			Type:     models.SlideTitle,
			Title:    "Break",
			Checking: &checking,
		}},
	}
}

func solutionsBlock() models.Block {
	return models.Block{
		Type: models.BlockStatic,
		Slides: []models.Slide{{
			Type:  models.SlideTitle,
			Title: "Solutions",
		}},
	}
}

// assignSlideIDs numbers every slide 0..N-1 in deck order. Runs last; IDs
// are recomputed whenever the deck is regenerated.
func assignSlideIDs(blocks []models.Block) {
	id := 0
	for bi := range blocks {
		for si := range blocks[bi].Slides {
			blocks[bi].Slides[si].ID = id
			id++
		}
	}
}

// ParseQuiz expands a submission into the final deck, collecting the
// extracted question records through onQuestion as it goes.
func (s *QuizService) ParseQuiz(req *QuizDataRequest, onQuestion func(models.Question)) []models.Block {
	builder := &deckBuilder{onQuestion: onQuestion}
	return builder.buildDeck(req)
}

// ProcessAndSaveQuiz expands the submission, inserts the extracted questions
// during traversal (each one individually non-fatal) and inserts the quiz row
// with a diacritic-normalized title. Returns the new quiz id; a title
// uniqueness violation maps to ErrDuplicate. Question inserts deliberately
// survive a failed quiz insert.
func (s *QuizService) ProcessAndSaveQuiz(ctx context.Context, req *QuizDataRequest) (uint, error) {
	blocks := s.ParseQuiz(req, func(q models.Question) {
		if err := s.questions.Insert(ctx, &q); err != nil {
			slog.Error("inserting question", "error", err, "answer", q.Answer)
		}
	})

	quiz := models.Quiz{
		Title:  utils.NormalizeTitle(req.Title),
		Date:   req.Date,
		Host:   req.Host,
		Blocks: datatypes.NewJSONType(blocks),
	}
	if err := s.db.WithContext(ctx).Create(&quiz).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return quiz.ID, nil
}

// ListQuizzes returns the id/title listing.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]models.QuizSummary, error) {
	var summaries []models.QuizSummary
	err := s.db.WithContext(ctx).Model(&models.Quiz{}).
		Order("created_at DESC").
		Find(&summaries).Error
	return summaries, err
}

// GetQuiz loads a full quiz document by id.
func (s *QuizService) GetQuiz(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// UpdateBlocks replaces a quiz's whole blocks document.
func (s *QuizService) UpdateBlocks(ctx context.Context, id uint, blocks []models.Block) error {
	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return err
	}
	return replaceQuizBlocks(ctx, s.db, quiz, blocks)
}

// DeleteQuiz removes the quiz row and returns its stored title so the caller
// can clean up the quiz's storage folder.
func (s *QuizService) DeleteQuiz(ctx context.Context, id uint) (string, error) {
	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Quiz{}, id).Error; err != nil {
		return "", err
	}
	return quiz.Title, nil
}

// replaceQuizBlocks rewrites the blocks document guarded by the version the
// quiz was read at; a stale version surfaces ErrConflict instead of silently
// dropping a concurrent writer's change.
func replaceQuizBlocks(ctx context.Context, db *gorm.DB, quiz *models.Quiz, blocks []models.Block) error {
	res := db.WithContext(ctx).Model(&models.Quiz{}).
		Where("id = ? AND version = ?", quiz.ID, quiz.Version).
		Updates(map[string]interface{}{
			"blocks":  datatypes.NewJSONType(blocks),
			"version": quiz.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	quiz.Blocks = datatypes.NewJSONType(blocks)
	quiz.Version++
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
