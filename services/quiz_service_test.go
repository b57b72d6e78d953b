package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"quiqz/models"
)

func questionSlide(clues []string, answer string) models.Slide {
	return models.Slide{
		Type:     models.SlideQuestion,
		Question: clues,
		Answer:   answer,
	}
}

// collectingBuilder returns a builder that appends every extracted question
// to the returned slice.
func collectingBuilder() (*deckBuilder, *[]models.Question) {
	var questions []models.Question
	builder := &deckBuilder{onQuestion: func(q models.Question) {
		questions = append(questions, q)
	}}
	return builder, &questions
}

func deckSlides(blocks []models.Block) []models.Slide {
	var slides []models.Slide
	for _, block := range blocks {
		slides = append(slides, block.Slides...)
	}
	return slides
}

func TestBuildDeckAssignsSequentialIDs(t *testing.T) {
	builder, _ := collectingBuilder()
	req := &QuizDataRequest{
		Title: "Test Quiz",
		Host:  "Anna",
		FirstHalf: HalfRequest{Blocks: []models.Block{
			{Type: models.RoundWarmUp, Slides: []models.Slide{
				questionSlide([]string{"Q1"}, "A1"),
				questionSlide([]string{"Q2"}, "A2"),
			}},
		}},
		SecondHalf: HalfRequest{Blocks: []models.Block{
			{Type: models.RoundThematic, Topic: "space", Slides: []models.Slide{
				questionSlide([]string{"Q3"}, "A3"),
			}},
		}},
	}

	blocks := builder.buildDeck(req)
	slides := deckSlides(blocks)

	for i, slide := range slides {
		if slide.ID != i {
			t.Errorf("slide %d has id %d, want %d", i, slide.ID, i)
		}
	}
	// overview + (title+2) + solutions + intermission + (title+1) + solutions
	if len(slides) != 9 {
		t.Errorf("expected 9 slides, got %d", len(slides))
	}
}

func TestOverviewBlock(t *testing.T) {
	builder, _ := collectingBuilder()
	req := &QuizDataRequest{
		Title: "Kvíz",
		Host:  "Anna",
		FirstHalf: HalfRequest{Blocks: []models.Block{
			{Type: models.RoundWarmUp, Topic: "history"},
			{Type: models.BlockStatic},
		}},
		SecondHalf: HalfRequest{Blocks: []models.Block{
			{Type: models.RoundSounds},
		}},
	}

	block := builder.overviewBlock(req)
	if len(block.Slides) != 1 {
		t.Fatalf("expected 1 overview slide, got %d", len(block.Slides))
	}
	slide := block.Slides[0]
	if slide.Type != models.SlideTitle {
		t.Errorf("overview slide type = %q, want title", slide.Type)
	}
	if slide.Title != "Kvíz" {
		t.Errorf("overview title = %q", slide.Title)
	}
	if want := "warm up: history | sounds"; slide.Text != want {
		t.Errorf("overview text = %q, want %q", slide.Text, want)
	}
	if slide.CornerElement != "Kvízmester: Anna" {
		t.Errorf("corner element = %q", slide.CornerElement)
	}
}

func TestWhoAmISlides(t *testing.T) {
	builder, questions := collectingBuilder()
	block := models.Block{
		Type:          models.RoundWhoAmI,
		BlockQuestion: []string{"c1", "c2", "c3", "c4"},
		BlockAnswer:   "Einstein",
	}

	slides := builder.whoAmISlides(block)
	if len(slides) != 4 {
		t.Fatalf("expected 4 slides, got %d", len(slides))
	}
	wantLabels := []string{"5", "3", "2", "1"}
	for k, slide := range slides {
		wantClues := []string{"c1", "c2", "c3", "c4"}[:k+1]
		if !reflect.DeepEqual(slide.Question, wantClues) {
			t.Errorf("slide %d clues = %v, want %v", k, slide.Question, wantClues)
		}
		if slide.Answer != "Einstein" {
			t.Errorf("slide %d answer = %q", k, slide.Answer)
		}
		if slide.PointLabel != wantLabels[k] {
			t.Errorf("slide %d point label = %q, want %q", k, slide.PointLabel, wantLabels[k])
		}
	}

	if len(*questions) != 1 {
		t.Fatalf("expected exactly 1 aggregate question, got %d", len(*questions))
	}
	if got := (*questions)[0]; len(got.Question) != 4 || got.Answer != "Einstein" {
		t.Errorf("aggregate question = %+v", got)
	}
}

func TestWhoAmISlidesCapAtFourClues(t *testing.T) {
	builder, questions := collectingBuilder()
	block := models.Block{
		Type:          models.RoundWhoAmI,
		BlockQuestion: []string{"c1", "c2", "c3", "c4", "c5"},
		BlockAnswer:   "Einstein",
	}

	slides := builder.whoAmISlides(block)
	if len(slides) != 4 {
		t.Fatalf("expected 4 slides for 5 clues, got %d", len(slides))
	}
	if len(slides[3].Question) != 4 {
		t.Errorf("last slide reveals %d clues, want 4", len(slides[3].Question))
	}
	// The aggregate keeps the full authored clue list.
	if got := (*questions)[0]; len(got.Question) != 5 {
		t.Errorf("aggregate clue count = %d, want 5", len(got.Question))
	}
}

func TestConnectionRoundDecoration(t *testing.T) {
	builder, questions := collectingBuilder()
	block := models.Block{
		Type:        "Kapcsolat kör",
		BlockAnswer: "rivers",
		Slides: []models.Slide{
			questionSlide([]string{"Q1"}, "A1"),
			questionSlide([]string{"Q2"}, "A2"),
			questionSlide([]string{"Q3"}, "A3"),
			questionSlide([]string{"Q4"}, "A4"),
			questionSlide([]string{"Q5"}, "A5"),
		},
	}

	out := builder.expandBlock(block)
	// title + 5 copied + closing
	if len(out.Slides) != 7 {
		t.Fatalf("expected 7 slides, got %d", len(out.Slides))
	}

	// Positions are 0-based over the authored slides; the synthetic title
	// slide sits in front of them.
	wantLabels := []string{"", "3", "2", "1", ""}
	for i, want := range wantLabels {
		if got := out.Slides[i+1].PointLabel; got != want {
			t.Errorf("slide %d bonus label = %q, want %q", i, got, want)
		}
	}

	closing := out.Slides[len(out.Slides)-1]
	if closing.Type != models.SlideQuestion {
		t.Fatalf("closing slide type = %q", closing.Type)
	}
	if !strings.Contains(closing.Question[0], "connects") {
		t.Errorf("closing question = %q", closing.Question[0])
	}
	if closing.Answer != "rivers" {
		t.Errorf("closing answer = %q", closing.Answer)
	}

	// 5 authored + 1 closing question records.
	if len(*questions) != 6 {
		t.Errorf("expected 6 question records, got %d", len(*questions))
	}
}

func TestConnectionRoundWithoutBlockAnswer(t *testing.T) {
	builder, _ := collectingBuilder()
	block := models.Block{
		Type:   models.RoundConnection,
		Slides: []models.Slide{questionSlide([]string{"Q1"}, "A1")},
	}

	out := builder.expandBlock(block)
	if len(out.Slides) != 2 {
		t.Errorf("expected no closing slide without a block answer, got %d slides", len(out.Slides))
	}
}

func TestStaticBlockPassesThrough(t *testing.T) {
	builder, _ := collectingBuilder()
	block := models.Block{
		Type: models.BlockStatic,
		Slides: []models.Slide{
			{Type: models.SlideTitle, Title: "Hello"},
		},
	}

	out := builder.expandBlock(block)
	if len(out.Slides) != 1 || out.Slides[0].Title != "Hello" {
		t.Errorf("static block changed: %+v", out.Slides)
	}
}

func TestBlockWithoutSlidesExpandsSafely(t *testing.T) {
	builder, _ := collectingBuilder()

	static := builder.expandBlock(models.Block{Type: models.BlockStatic})
	if len(static.Slides) != 0 {
		t.Errorf("static block without slides produced %d slides", len(static.Slides))
	}

	round := builder.expandBlock(models.Block{Type: models.RoundImages, Topic: "art"})
	if len(round.Slides) != 1 {
		t.Fatalf("round block without slides should produce its title slide only, got %d", len(round.Slides))
	}
	if round.Slides[0].Title != models.RoundImages || round.Slides[0].Text != "art" {
		t.Errorf("title slide = %+v", round.Slides[0])
	}
}

func TestSecondHalfInterleaving(t *testing.T) {
	builder, _ := collectingBuilder()
	half := []models.Block{
		{Type: models.RoundWhoAmI, BlockQuestion: []string{"c1", "c2", "c3"}, BlockAnswer: "X"},
		{Type: models.RoundThematic, Slides: []models.Slide{questionSlide([]string{"Q1"}, "A1")}},
		{Type: models.BlockStatic, Slides: []models.Slide{{Type: models.SlideTitle, Title: "T"}}},
	}

	out := builder.expandHalf(half, true)

	// intermission, whoAmI#1, thematic, whoAmI#2, static, whoAmI#3, solutions
	if len(out) != 7 {
		t.Fatalf("expected 7 blocks, got %d: %+v", len(out), out)
	}

	intermission := out[0].Slides[0]
	if intermission.Title != "Break" {
		t.Errorf("first block title = %q, want Break", intermission.Title)
	}
	if intermission.Checking == nil || *intermission.Checking {
		t.Errorf("intermission checking flag = %v, want false", intermission.Checking)
	}

	for i, idx := range []int{1, 3, 5} {
		block := out[idx]
		if block.Type != models.BlockStatic || len(block.Slides) != 1 {
			t.Fatalf("block %d is not a single-slide static block: %+v", idx, block)
		}
		if got := len(block.Slides[0].Question); got != i+1 {
			t.Errorf("interleaved slide %d reveals %d clues, want %d", i, got, i+1)
		}
	}

	last := out[len(out)-1].Slides[0]
	if last.Title != "Solutions" {
		t.Errorf("last block title = %q, want Solutions", last.Title)
	}
}

func TestFirstHalfHasNoIntermission(t *testing.T) {
	builder, _ := collectingBuilder()
	half := []models.Block{
		{Type: models.RoundWhoAmI, BlockQuestion: []string{"c1", "c2"}, BlockAnswer: "X"},
		{Type: models.RoundWarmUp, Slides: []models.Slide{questionSlide([]string{"Q1"}, "A1")}},
	}

	out := builder.expandHalf(half, false)

	// warm up, whoAmI#1, solutions; the second generated slide has no block
	// to follow and is dropped.
	if len(out) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(out))
	}
	if out[0].Type != models.RoundWarmUp {
		t.Errorf("first block = %q, want warm up", out[0].Type)
	}
	if out[1].Type != models.BlockStatic || len(out[1].Slides[0].Question) != 1 {
		t.Errorf("second block should be the first generated slide: %+v", out[1])
	}
	if out[2].Slides[0].Title != "Solutions" {
		t.Errorf("last block = %+v", out[2])
	}
}

func TestLeftoverWhoAmISlidesAreDropped(t *testing.T) {
	builder, _ := collectingBuilder()
	half := []models.Block{
		{Type: models.RoundWhoAmI, BlockQuestion: []string{"c1", "c2", "c3", "c4"}, BlockAnswer: "X"},
	}

	out := builder.expandHalf(half, true)

	// intermission, whoAmI#1, solutions — three generated slides have no
	// block to follow and must vanish without error.
	if len(out) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(out))
	}
}

func TestWhoAmIRoundWithoutCluesIsDropped(t *testing.T) {
	builder, questions := collectingBuilder()
	half := []models.Block{
		{Type: models.RoundWhoAmI, BlockAnswer: "X"}, // no clues authored
		{Type: models.RoundWarmUp, Slides: []models.Slide{questionSlide([]string{"Q1"}, "A1")}},
	}

	out := builder.expandHalf(half, true)

	// intermission, warm up, solutions; nothing to interleave.
	if len(out) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %+v", len(out), out)
	}
	if out[1].Type != models.RoundWarmUp {
		t.Errorf("second block = %q, want warm up", out[1].Type)
	}
	// Only the warm-up question; no aggregate for the empty round.
	if len(*questions) != 1 {
		t.Errorf("expected 1 question record, got %d", len(*questions))
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("creating quiz: %w", &pgconn.PgError{Code: "23505"}), true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", errors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		if got := isUniqueViolation(tt.err); got != tt.want {
			t.Errorf("%s: isUniqueViolation = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBuildDeckFullPipeline(t *testing.T) {
	builder, questions := collectingBuilder()
	req := &QuizDataRequest{
		Title: "Nagy Kvíz",
		Host:  "Bence",
		FirstHalf: HalfRequest{Blocks: []models.Block{
			{Type: models.RoundWarmUp, Slides: []models.Slide{
				questionSlide([]string{"Q1"}, "A1"),
			}},
		}},
		SecondHalf: HalfRequest{Blocks: []models.Block{
			{Type: models.RoundWhoAmI, BlockQuestion: []string{"c1", "c2"}, BlockAnswer: "Madonna"},
			{Type: models.RoundConnection, BlockAnswer: "colours", Slides: []models.Slide{
				questionSlide([]string{"Q2"}, "A2"),
			}},
		}},
	}

	blocks := builder.buildDeck(req)
	slides := deckSlides(blocks)

	seen := make(map[int]bool)
	for _, slide := range slides {
		if seen[slide.ID] {
			t.Errorf("duplicate slide id %d", slide.ID)
		}
		seen[slide.ID] = true
	}
	for i := range slides {
		if !seen[i] {
			t.Errorf("missing slide id %d", i)
		}
	}

	// Q1, whoAmI aggregate, Q2, connection closing.
	if len(*questions) != 4 {
		t.Errorf("expected 4 question records, got %d", len(*questions))
	}
}
