package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 2 << 20 // 2MB

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".pdf":  true,
}

var allowedContentTypes = map[string]bool{
	"image/png":       true,
	"image/jpg":       true,
	"image/jpeg":      true,
	"application/pdf": true,
}

type FileHandler struct {
	UploadDir string
}

// Upload accepts one file and returns its storage reference. Both the
// extension and the declared content type must be on the allow-list; anything
// else is a client error, never stored.
func (h *FileHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required", "field": "file"})
		return
	}

	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds 2MB limit", "field": "file"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only images and pdf's are allowed", "field": "file"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedContentTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only images and pdf's are allowed", "field": "file"})
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		log.Printf("❌ Failed to create upload dir: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	name := fmt.Sprintf("%d-%s-%s", time.Now().Unix(), uuid.New().String(),
		strings.ReplaceAll(file.Filename, " ", "_"))
	dst := filepath.Join(h.UploadDir, name)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.Printf("❌ Failed to save uploaded file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file": name})
}
