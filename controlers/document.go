package controlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RayaSatriatama/dicoding-genai-backend/libs"
)

type DocumentController struct {
	documents *libs.DocumentService
}

func NewDocumentController(documents *libs.DocumentService) *DocumentController {
	return &DocumentController{documents: documents}
}

// Upload stores a multipart file and its metadata record together.
func (dc *DocumentController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	defer src.Close()

	userID := c.GetString(libs.ContextUserKey)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	doc, err := dc.documents.Save(ctx, userID, fileHeader.Filename, src)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "File uploaded and document saved successfully",
		"filePath": doc.Path,
		"fileName": doc.Title,
	})
}

// List returns the caller's documents.
func (dc *DocumentController) List(c *gin.Context) {
	userID := c.GetString(libs.ContextUserKey)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	docs, err := dc.documents.List(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

// Delete removes a stored file and its record together.
func (dc *DocumentController) Delete(c *gin.Context) {
	userID := c.GetString(libs.ContextUserKey)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := dc.documents.Delete(ctx, userID, c.Param("path")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document and file deleted successfully"})
}
