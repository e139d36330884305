package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docinsight-be/service"
	"github.com/tieubaoca/docinsight-be/types"
)

type OutlineHandler struct {
	pipeline    *service.PipelineService
	fileService *service.FileService
}

func NewOutlineHandler(pipeline *service.PipelineService, fileService *service.FileService) *OutlineHandler {
	return &OutlineHandler{
		pipeline:    pipeline,
		fileService: fileService,
	}
}

// HandleOutline infers the title and heading hierarchy of one stored
// document.
func (h *OutlineHandler) HandleOutline(c *gin.Context) {
	var req types.OutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if req.Document == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "document is required",
		})
		return
	}

	path, err := h.fileService.ResolveDocument(req.Document)
	if err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	outline, err := h.pipeline.ExtractOutline(path)
	if err != nil {
		status := http.StatusInternalServerError
		if service.IsDocumentError(err) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   outline,
	})
}
