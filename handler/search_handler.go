package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docinsight-be/database"
	"github.com/tieubaoca/docinsight-be/service"
	"github.com/tieubaoca/docinsight-be/types"
)

type SearchHandler struct {
	vectorDB database.VectorDatabase
	embedder service.EmbeddingService
}

func NewSearchHandler(vectorDB database.VectorDatabase, embedder service.EmbeddingService) *SearchHandler {
	return &SearchHandler{
		vectorDB: vectorDB,
		embedder: embedder,
	}
}

// HandleSearch embeds the query and returns the nearest stored
// sections, optionally scoped to one run.
func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req types.SearchSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "query is required",
		})
		return
	}
	if req.Limit == 0 {
		req.Limit = 5
	}

	vectors, err := h.embedder.EmbedTexts(c.Request.Context(), []string{req.Query})
	if err != nil || len(vectors) != 1 {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Failed to embed query",
		})
		return
	}

	records, err := h.vectorDB.SearchSimilar(c.Request.Context(), vectors[0], req.RunID, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Search failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   records,
	})
}
