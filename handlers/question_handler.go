package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"quiqz/services"
)

type QuestionHandler struct {
	questionService *services.QuestionService
}

func NewQuestionHandler(questionService *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	questions, err := h.questionService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Listing questions failed."})
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "text and answer are required."})
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), &req)
	if err != nil {
		slog.Error("creating question", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Creating the question failed."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": question})
}
