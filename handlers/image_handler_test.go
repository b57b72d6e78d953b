package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newImageRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewImageHandler(nil)
	router.POST("/image", handler.UploadImage)
	router.POST("/image/delete", handler.DeleteImage)
	return router
}

func TestParseUploadName(t *testing.T) {
	tests := []struct {
		name    string
		want    uploadName
		wantErr bool
	}{
		{
			name: "Quiz---3---1.jpg",
			want: uploadName{QuizTitle: "Quiz", SlideNo: "3", FileName: "1.jpg"},
		},
		{
			name: "Quiz---3---tok-abc---5--answer-2.jpg",
			want: uploadName{QuizTitle: "Quiz", SlideNo: "3", ImageID: "tok-abc", FileName: "5--answer-2.jpg"},
		},
		{name: "Quiz---3", wantErr: true},
		{name: "Quiz------1.jpg", wantErr: true},
		{name: "noseparators.jpg", wantErr: true},
		{name: "a---b---c---d---e", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseUploadName(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseUploadName(%q) expected error, got %+v", tt.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseUploadName(%q) failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseUploadName(%q) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestUploadImageWithoutFile(t *testing.T) {
	router := newImageRouter()

	req := httptest.NewRequest(http.MethodPost, "/image", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUploadImageWithMalformedFilename(t *testing.T) {
	router := newImageRouter()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "no-delimiters.jpg")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteImageValidation(t *testing.T) {
	router := newImageRouter()

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing path", map[string]interface{}{"fileIndex": "1"}},
		{"missing fileIndex", map[string]interface{}{"path": "Quiz---3"}},
		{"malformed path", map[string]interface{}{"path": "Quiz", "fileIndex": "1"}},
		{"empty segment", map[string]interface{}{"path": "Quiz---", "fileIndex": "1"}},
	}

	for _, tt := range tests {
		payload, _ := json.Marshal(tt.body)
		req := httptest.NewRequest(http.MethodPost, "/image/delete", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %s", tt.name, w.Code, w.Body.String())
		}
	}
}
