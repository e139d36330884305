package handler

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docinsight-be/service"
	"github.com/tieubaoca/docinsight-be/types"
)

type DocumentHandler struct {
	fileService *service.FileService
}

func NewDocumentHandler(fileService *service.FileService) *DocumentHandler {
	return &DocumentHandler{
		fileService: fileService,
	}
}

// ListDocuments returns the stored PDF names available for analysis.
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	names, err := h.fileService.ListDocuments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   names,
	})
}

// ServeDocument streams a stored PDF back to the client.
func (h *DocumentHandler) ServeDocument(c *gin.Context) {
	requestedName := c.Query("file")
	if requestedName == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "File parameter is required",
		})
		return
	}
	if filepath.Ext(requestedName) != ".pdf" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Only PDF files are allowed",
		})
		return
	}

	path, err := h.fileService.ResolveDocument(requestedName)
	if err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  false,
			Message: "File not found",
		})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", requestedName))
	c.File(path)
}
