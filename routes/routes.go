package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiqz/handlers"
)

func SetupRoutes(
	router *gin.Engine,
	quizHandler *handlers.QuizHandler,
	questionHandler *handlers.QuestionHandler,
	imageHandler *handlers.ImageHandler,
) {
	quiz := router.Group("/quiz")
	{
		quiz.GET("", quizHandler.GetQuizzes)
		quiz.POST("", quizHandler.CreateQuiz)
		quiz.POST("/load", quizHandler.LoadQuiz)
		quiz.GET("/:id", quizHandler.GetQuizByID)
		quiz.PATCH("/:id", quizHandler.UpdateBlocks)
		quiz.DELETE("/:id", quizHandler.DeleteQuiz)
		quiz.POST("/:id/images", quizHandler.UpdateQuizImages)
	}

	question := router.Group("/question")
	{
		question.GET("", questionHandler.GetQuestions)
		question.POST("", questionHandler.CreateQuestion)
	}

	image := router.Group("/image")
	{
		image.POST("", imageHandler.UploadImage)
		image.POST("/delete", imageHandler.DeleteImage)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
