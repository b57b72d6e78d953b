package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quiqz/models"
	"quiqz/services"
)

type QuizHandler struct {
	quizService  *services.QuizService
	imageService *services.ImageService
}

func NewQuizHandler(quizService *services.QuizService, imageService *services.ImageService) *QuizHandler {
	return &QuizHandler{
		quizService:  quizService,
		imageService: imageService,
	}
}

func (h *QuizHandler) GetQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListQuizzes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Listing quizzes failed."})
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuizByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quiz ID"})
		return
	}

	quiz, err := h.quizService.GetQuiz(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Quiz not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Loading the quiz failed."})
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// CreateQuiz acknowledges a quiz stub. The authoring flow goes through
// LoadQuiz; this endpoint only exists for editor compatibility.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var stub map[string]interface{}
	_ = c.ShouldBindJSON(&stub)
	slog.Info("quiz stub received", "keys", len(stub))

	c.String(http.StatusCreated, "Quiz created successfully.")
}

// LoadQuiz accepts a two-half quiz submission, expands it into the final
// slide deck and persists it.
func (h *QuizHandler) LoadQuiz(c *gin.Context) {
	var req services.QuizDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quiz submission."})
		return
	}
	if err := models.ValidateBlocks(req.FirstHalf.Blocks); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := models.ValidateBlocks(req.SecondHalf.Blocks); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	quizID, err := h.quizService.ProcessAndSaveQuiz(c.Request.Context(), &req)
	if errors.Is(err, services.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"message": "A quiz already exists with this title."})
		return
	}
	if err != nil {
		slog.Error("saving quiz", "error", err, "title", req.Title)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Saving the quiz failed."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Quiz saved successfully.",
		"quizId":  quizID,
	})
}

type updateBlocksRequest struct {
	Blocks *[]models.Block `json:"blocks" binding:"required"`
}

// UpdateBlocks replaces a quiz's whole blocks document.
func (h *QuizHandler) UpdateBlocks(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quiz ID"})
		return
	}

	var req updateBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Blocks == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No blocks provided."})
		return
	}
	if err := models.ValidateBlocks(*req.Blocks); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	err = h.quizService.UpdateBlocks(c.Request.Context(), uint(id), *req.Blocks)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Quiz not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Quiz was modified by another request."})
	case err != nil:
		slog.Error("updating quiz blocks", "error", err, "quizId", id)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Updating the quiz failed."})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message": "Quiz updated successfully.",
			"data":    req.Blocks,
		})
	}
}

// DeleteQuiz removes the quiz row and every blob under its storage folder.
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quiz ID"})
		return
	}

	title, err := h.quizService.DeleteQuiz(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Quiz not found"})
		return
	}
	if err != nil {
		slog.Error("deleting quiz", "error", err, "quizId", id)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Deleting the quiz failed."})
		return
	}

	deleted, err := h.imageService.DeleteQuizImages(c.Request.Context(), title)
	if err != nil {
		slog.Error("deleting quiz images", "error", err, "title", title)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Deleting the quiz images failed."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Quiz deleted successfully.",
		"deletedObjects": deleted,
	})
}

// UpdateQuizImages patches one image entry of one slide by image id.
func (h *QuizHandler) UpdateQuizImages(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quiz ID"})
		return
	}

	var req services.UpdateQuizImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}
	if req.SlideID == "" || req.NewKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "slideId and newKey are required."})
		return
	}

	slide, err := h.imageService.UpdateQuizImages(c.Request.Context(), uint(id), &req)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Quiz, slide or image not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Quiz was modified by another request."})
	case err != nil:
		slog.Error("updating quiz images", "error", err, "quizId", id)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Updating the image failed."})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message": "Image updated successfully.",
			"data":    slide,
		})
	}
}
