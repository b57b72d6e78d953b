package utils

import (
	"testing"

	"quiqz/models"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Kvíz", "Kviz"},
		{"árvíztűrő tükörfúrógép", "arvizturo tukorfurogep"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	for _, in := range []string{"Kvíz", "École", "Żółć", "already plain"} {
		once := NormalizeTitle(in)
		if twice := NormalizeTitle(once); twice != once {
			t.Errorf("NormalizeTitle not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestFindSlideInBlocks(t *testing.T) {
	blocks := []models.Block{
		{Type: models.BlockStatic, Slides: []models.Slide{
			{ID: 0, Type: models.SlideTitle},
		}},
		{Type: models.RoundWarmUp, Slides: []models.Slide{
			{ID: 1, Type: models.SlideTitle},
			{ID: 2, Type: models.SlideQuestion},
		}},
	}

	if bi, si := FindSlideInBlocks(blocks, "2"); bi != 1 || si != 1 {
		t.Errorf("FindSlideInBlocks(2) = (%d, %d), want (1, 1)", bi, si)
	}
	if bi, si := FindSlideInBlocks(blocks, "0"); bi != 0 || si != 0 {
		t.Errorf("FindSlideInBlocks(0) = (%d, %d), want (0, 0)", bi, si)
	}
}

func TestFindSlideInBlocksSentinel(t *testing.T) {
	blocks := []models.Block{
		{Type: models.RoundWarmUp}, // no slides at all
		{Type: models.BlockStatic, Slides: []models.Slide{{ID: 0}}},
	}

	if bi, si := FindSlideInBlocks(blocks, "99"); bi != -1 || si != -1 {
		t.Errorf("missing slide = (%d, %d), want (-1, -1)", bi, si)
	}
	if bi, si := FindSlideInBlocks(nil, "0"); bi != -1 || si != -1 {
		t.Errorf("nil blocks = (%d, %d), want (-1, -1)", bi, si)
	}
}
