package services

import (
	"context"
	"errors"
	"path"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"quiqz/models"
	"quiqz/storage"
	"quiqz/utils"
)

// answerMarker flags an answer-slot image name; the digits after it are the
// slot index ("5--answer-2.jpg" is answer slot 2).
const answerMarker = "answer-"

type ImageService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewImageService(db *gorm.DB, store storage.ObjectStore) *ImageService {
	return &ImageService{db: db, store: store}
}

// Slot names one image position within a slide.
type Slot struct {
	Type  string
	Index int
}

// ParseSlot resolves an image file name to its slot. Names containing the
// answer marker are answer slots indexed by the digits after the marker;
// anything else is a question slot indexed by the leading numeric token.
func ParseSlot(fileName string) Slot {
	label := slotLabel(fileName)
	if at := strings.Index(label, answerMarker); at >= 0 {
		return Slot{
			Type:  models.ImageAnswer,
			Index: leadingInt(label[at+len(answerMarker):]),
		}
	}
	token := label
	if at := strings.Index(token, "--"); at >= 0 {
		token = token[:at]
	}
	return Slot{Type: models.ImageQuestion, Index: leadingInt(token)}
}

// slotLabel is the file name without its extension.
func slotLabel(fileName string) string {
	if at := strings.Index(fileName, "."); at >= 0 {
		return fileName[:at]
	}
	return fileName
}

func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}

// UploadImageInput carries one image payload and its destination identity.
type UploadImageInput struct {
	Data        []byte
	ContentType string
	FileName    string
	QuizTitle   string
	SlideNo     string
	ImageID     string
}

// UploadImage stores the blob and rewrites the target slide's image list.
// The new blob is uploaded before any stale blob in the same slot is
// deleted, so the slot is never transiently empty; a crash in between can
// only orphan a blob. Returns the download URL.
func (s *ImageService) UploadImage(ctx context.Context, in *UploadImageInput) (string, error) {
	quiz, err := s.loadQuizByTitle(ctx, in.QuizTitle)
	if err != nil {
		return "", err
	}
	blocks := quiz.Blocks.Data()
	blockIndex, slideIndex := utils.FindSlideInBlocks(blocks, in.SlideNo)
	if blockIndex == -1 {
		return "", ErrNotFound
	}

	prefix := objectPrefix(in.QuizTitle, in.SlideNo)
	newKey := prefix + in.FileName

	existing, err := s.store.List(ctx, prefix)
	if err != nil {
		return "", &ImageDeletionError{Op: "list", Err: err}
	}

	url, err := s.store.Upload(ctx, newKey, in.Data, in.ContentType)
	if err != nil {
		return "", &ImageDeletionError{Op: "upload", Err: err}
	}

	if stale := keysMatchingLabel(existing, slotLabel(in.FileName), newKey); len(stale) > 0 {
		if err := s.store.Delete(ctx, stale...); err != nil {
			return "", &ImageDeletionError{Op: "delete", Err: err}
		}
	}

	slot := ParseSlot(in.FileName)
	applyImage(&blocks[blockIndex].Slides[slideIndex], models.ImageMeta{
		ID:    in.ImageID,
		URL:   url,
		Index: slot.Index,
		Type:  slot.Type,
	})
	if err := replaceQuizBlocks(ctx, s.db, quiz, blocks); err != nil {
		return "", err
	}
	return url, nil
}

// DeleteImage removes every blob in the slide's folder whose name matches
// the slot label, then drops the matching entry from the slide's image list.
func (s *ImageService) DeleteImage(ctx context.Context, quizTitle, slideID, fileLabel string) error {
	quiz, err := s.loadQuizByTitle(ctx, quizTitle)
	if err != nil {
		return err
	}
	blocks := quiz.Blocks.Data()
	blockIndex, slideIndex := utils.FindSlideInBlocks(blocks, slideID)
	if blockIndex == -1 {
		return ErrNotFound
	}

	prefix := objectPrefix(quizTitle, slideID)
	keys, err := s.store.List(ctx, prefix)
	if err != nil {
		return &ImageDeletionError{Op: "list", Err: err}
	}
	if stale := keysMatchingLabel(keys, slotLabel(fileLabel), ""); len(stale) > 0 {
		if err := s.store.Delete(ctx, stale...); err != nil {
			return &ImageDeletionError{Op: "delete", Err: err}
		}
	}

	removeImagesInSlot(&blocks[blockIndex].Slides[slideIndex], ParseSlot(fileLabel))
	return replaceQuizBlocks(ctx, s.db, quiz, blocks)
}

// UpdateQuizImagesRequest is the partial field set of POST /quiz/:id/images.
type UpdateQuizImagesRequest struct {
	QuizID   uint   `json:"quizId"`
	SlideID  string `json:"slideId"`
	NewKey   string `json:"newKey"`
	OldKey   string `json:"oldKey"`
	ImageURL string `json:"imageUrl"`
}

// UpdateQuizImages merges the partial fields into the slide's image entry
// matching the old key (or the new key when no old key is given) and
// rewrites the blocks document. Returns the updated slide.
func (s *ImageService) UpdateQuizImages(ctx context.Context, quizID uint, req *UpdateQuizImagesRequest) (*models.Slide, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).First(&quiz, quizID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	blocks := quiz.Blocks.Data()
	blockIndex, slideIndex := utils.FindSlideInBlocks(blocks, req.SlideID)
	if blockIndex == -1 {
		return nil, ErrNotFound
	}
	slide := &blocks[blockIndex].Slides[slideIndex]
	if len(slide.Images) == 0 {
		return nil, ErrNotFound
	}

	targetID := req.OldKey
	if targetID == "" {
		targetID = req.NewKey
	}
	found := false
	for i := range slide.Images {
		if slide.Images[i].ID == targetID {
			slide.Images[i].ID = req.NewKey
			if req.ImageURL != "" {
				slide.Images[i].URL = req.ImageURL
			}
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotFound
	}

	if err := replaceQuizBlocks(ctx, s.db, &quiz, blocks); err != nil {
		return nil, err
	}
	updated := blocks[blockIndex].Slides[slideIndex]
	return &updated, nil
}

// DeleteQuizImages removes every blob stored under the quiz's folder and
// returns how many were deleted. Used when a quiz is removed entirely.
func (s *ImageService) DeleteQuizImages(ctx context.Context, quizTitle string) (int, error) {
	prefix := utils.NormalizeTitle(quizTitle) + "/"
	keys, err := s.store.List(ctx, prefix)
	if err != nil {
		return 0, &ImageDeletionError{Op: "list", Err: err}
	}
	if len(keys) > 0 {
		if err := s.store.Delete(ctx, keys...); err != nil {
			return 0, &ImageDeletionError{Op: "delete", Err: err}
		}
	}
	return len(keys), nil
}

func (s *ImageService) loadQuizByTitle(ctx context.Context, title string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).Where("title = ?", utils.NormalizeTitle(title)).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func objectPrefix(quizTitle, slideNo string) string {
	return utils.NormalizeTitle(quizTitle) + "/" + slideNo + "/"
}

// keysMatchingLabel filters keys to those whose file name (sans extension)
// equals the slot label, excluding the just-uploaded key.
func keysMatchingLabel(keys []string, label, excludeKey string) []string {
	var matching []string
	for _, key := range keys {
		if key == excludeKey {
			continue
		}
		if slotLabel(path.Base(key)) == label {
			matching = append(matching, key)
		}
	}
	return matching
}

// applyImage replaces the entry with the same image id, or appends a new
// one. A replace keeps the list length and the entry's display flags.
func applyImage(slide *models.Slide, meta models.ImageMeta) {
	for i := range slide.Images {
		if slide.Images[i].ID == meta.ID {
			slide.Images[i].URL = meta.URL
			slide.Images[i].Index = meta.Index
			slide.Images[i].Type = meta.Type
			return
		}
	}
	slide.Images = append(slide.Images, meta)
}

// removeImagesInSlot drops every entry occupying the given slot.
func removeImagesInSlot(slide *models.Slide, slot Slot) {
	kept := slide.Images[:0]
	for _, img := range slide.Images {
		if img.Index == slot.Index && img.Type == slot.Type {
			continue
		}
		kept = append(kept, img)
	}
	slide.Images = kept
}
