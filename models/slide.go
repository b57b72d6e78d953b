package models

import "fmt"

// Slide discriminants.
const (
	SlideTitle    = "title"
	SlideQuestion = "question"
)

// Image slot kinds.
const (
	ImageQuestion = "question"
	ImageAnswer   = "answer"
)

// Slide is one displayable unit of the deck: either a title slide or a
// question slide, discriminated by Type. The deck-unique ID is assigned
// only after the whole deck is assembled.
type Slide struct {
	ID   int    `json:"id"`
	Type string `json:"type"`

	// Title slide fields.
	Title         string `json:"title,omitempty"`
	SuperTitle    string `json:"superTitle,omitempty"`
	Text          string `json:"text,omitempty"`
	Checking      *bool  `json:"checking,omitempty"`
	CornerElement string `json:"cornerElement,omitempty"`

	// Question slide fields. Question holds progressively revealed clues.
	Question      []string `json:"question,omitempty"`
	Answer        string   `json:"answer,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	QuestionTitle string   `json:"questionTitle,omitempty"`
	PointLabel    string   `json:"pointLabel,omitempty"`

	Images     []ImageMeta `json:"images,omitempty"`
	Background string      `json:"background,omitempty"`
	TextColour string      `json:"textColour,omitempty"`
}

// ImageMeta identifies one image attached to a slide. ID is a stable
// client-generated token; (Type, Index) names the logical slot within the
// slide for replace and delete.
type ImageMeta struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Index        int    `json:"index"`
	Type         string `json:"type"`
	IsFullScreen bool   `json:"isFullScreen,omitempty"`
}

// Validate checks the slide's discriminant and enum fields. It is called at
// deserialization boundaries (quiz load, blocks patch), not on documents
// already in the store.
func (s *Slide) Validate() error {
	switch s.Type {
	case SlideTitle, SlideQuestion:
	default:
		return fmt.Errorf("slide %d: unknown slide type %q", s.ID, s.Type)
	}
	switch s.Difficulty {
	case "", "easy", "medium", "hard":
	default:
		return fmt.Errorf("slide %d: unknown difficulty %q", s.ID, s.Difficulty)
	}
	seen := make(map[string]bool, len(s.Images))
	for _, img := range s.Images {
		if img.Type != "" && img.Type != ImageQuestion && img.Type != ImageAnswer {
			return fmt.Errorf("slide %d: unknown image type %q", s.ID, img.Type)
		}
		if seen[img.ID] {
			return fmt.Errorf("slide %d: duplicate image id %q", s.ID, img.ID)
		}
		seen[img.ID] = true
	}
	return nil
}

// ValidateBlocks validates every slide in every block.
func ValidateBlocks(blocks []Block) error {
	for i := range blocks {
		for j := range blocks[i].Slides {
			if err := blocks[i].Slides[j].Validate(); err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
		}
	}
	return nil
}
