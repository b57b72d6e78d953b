package utils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"quiqz/models"
)

// NormalizeTitle strips diacritics so that titles compare and store
// consistently ("Kvíz" -> "Kviz"). Idempotent.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range norm.NFD.String(title) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FindSlideInBlocks scans blocks in order for the slide whose id matches
// slideID (compared in string form) and returns its (blockIndex, slideIndex),
// or (-1, -1) when no slide matches. Callers must check for the sentinel
// before indexing.
func FindSlideInBlocks(blocks []models.Block, slideID string) (int, int) {
	for blockIndex, block := range blocks {
		for slideIndex, slide := range block.Slides {
			if strconv.Itoa(slide.ID) == slideID {
				return blockIndex, slideIndex
			}
		}
	}
	return -1, -1
}
