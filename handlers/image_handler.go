package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quiqz/services"
)

type ImageHandler struct {
	imageService *services.ImageService
}

func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// uploadName is the identity the editor encodes into the uploaded file's
// name: "quizTitle---slideNo---fileName", with an optional imageId segment
// before the file name. The delimited format lives only here, at the HTTP
// boundary.
type uploadName struct {
	QuizTitle string
	SlideNo   string
	ImageID   string
	FileName  string
}

func parseUploadName(name string) (uploadName, error) {
	segments := strings.Split(name, "---")

	var parsed uploadName
	switch len(segments) {
	case 3:
		parsed = uploadName{QuizTitle: segments[0], SlideNo: segments[1], FileName: segments[2]}
	case 4:
		parsed = uploadName{QuizTitle: segments[0], SlideNo: segments[1], ImageID: segments[2], FileName: segments[3]}
	default:
		return uploadName{}, fmt.Errorf("expected quizTitle---slideNo---fileName, got %q", name)
	}
	if parsed.QuizTitle == "" || parsed.SlideNo == "" || parsed.FileName == "" {
		return uploadName{}, fmt.Errorf("missing quiz title, slide id or file name in %q", name)
	}
	return parsed, nil
}

// UploadImage accepts a multipart image whose file name encodes its
// destination and slot, stores the blob and patches the target slide.
func (h *ImageHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file attached."})
		return
	}

	name, err := parseUploadName(fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "No quiz title or slide id found on the attached file.",
		})
		return
	}
	if name.ImageID == "" {
		// Legacy three-segment names carry no client token.
		name.ImageID = uuid.NewString()
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Reading the attached file failed."})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Reading the attached file failed."})
		return
	}

	url, err := h.imageService.UploadImage(c.Request.Context(), &services.UploadImageInput{
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
		FileName:    name.FileName,
		QuizTitle:   name.QuizTitle,
		SlideNo:     name.SlideNo,
		ImageID:     name.ImageID,
	})
	if err != nil {
		h.respondImageError(c, err, "uploading image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

type deleteImageRequest struct {
	Path      string      `json:"path"`
	FileIndex interface{} `json:"fileIndex"`
}

// DeleteImage removes one image slot. Path is the legacy composite
// "quizTitle---slideId"; fileIndex is the slot label.
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	var req deleteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" || req.FileIndex == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No exact file path specified."})
		return
	}

	segments := strings.Split(req.Path, "---")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No exact file path specified."})
		return
	}

	fileLabel := fmt.Sprintf("%v", req.FileIndex)
	err := h.imageService.DeleteImage(c.Request.Context(), segments[0], segments[1], fileLabel)
	if err != nil {
		h.respondImageError(c, err, "deleting image")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ImageHandler) respondImageError(c *gin.Context, err error, op string) {
	var delErr *services.ImageDeletionError
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Quiz or slide not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Quiz was modified by another request."})
	case errors.As(err, &delErr):
		slog.Error(op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": delErr.Error()})
	default:
		slog.Error(op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Image operation failed."})
	}
}
