package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tieubaoca/docinsight-be/database"
	"github.com/tieubaoca/docinsight-be/repository"
	"github.com/tieubaoca/docinsight-be/service"
	"github.com/tieubaoca/docinsight-be/types"
)

// maxCollectionDocuments bounds one analysis run.
const maxCollectionDocuments = 10

type AnalyzeHandler struct {
	pipeline    *service.PipelineService
	embedder    service.EmbeddingService
	fileService *service.FileService
	runRepo     repository.RunRepo
	vectorDB    database.VectorDatabase
	cfg         types.AnalysisConfig
}

func NewAnalyzeHandler(
	pipeline *service.PipelineService,
	embedder service.EmbeddingService,
	fileService *service.FileService,
	runRepo repository.RunRepo,
	vectorDB database.VectorDatabase,
	cfg types.AnalysisConfig,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		pipeline:    pipeline,
		embedder:    embedder,
		fileService: fileService,
		runRepo:     runRepo,
		vectorDB:    vectorDB,
		cfg:         cfg,
	}
}

// HandleAnalyze starts a persona-driven analysis over stored documents
// and returns the run ID immediately. Progress streams over the
// websocket; the finished output is fetched from the run record.
func (h *AnalyzeHandler) HandleAnalyze(c *gin.Context) {
	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Persona) == "" || strings.TrimSpace(req.Job) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "persona and job_to_be_done are required",
		})
		return
	}
	if len(req.Documents) == 0 {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "documents are required",
		})
		return
	}
	if len(req.Documents) > maxCollectionDocuments {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "too many documents, maximum is " + strconv.Itoa(maxCollectionDocuments),
		})
		return
	}

	refs := make([]service.DocumentRef, 0, len(req.Documents))
	for _, name := range req.Documents {
		path, err := h.fileService.ResolveDocument(name)
		if err != nil {
			c.JSON(http.StatusNotFound, types.DataResponse{
				Status:  false,
				Message: err.Error(),
			})
			return
		}
		refs = append(refs, service.DocumentRef{Name: name, Path: path})
	}

	run := &types.AnalysisRun{
		ID:        bson.NewObjectID().Hex(),
		Persona:   req.Persona,
		Job:       req.Job,
		Documents: req.Documents,
		Status:    types.RunStatusRunning,
		CreatedAt: time.Now().Unix(),
	}
	if err := h.runRepo.CreateRun(c.Request.Context(), run); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	go h.runAnalysis(run, refs)

	c.JSON(http.StatusAccepted, types.DataResponse{
		Status: true,
		Data: map[string]string{
			"run_id": run.ID,
		},
	})
}

func (h *AnalyzeHandler) runAnalysis(run *types.AnalysisRun, refs []service.DocumentRef) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := h.pipeline.AnalyzeCollection(ctx, refs, run.Persona, run.Job)
	h.finishRun(run, result, err)
}

// finishRun records the outcome of a run. The pipeline context may
// already be expired when a deadline cut the run short, so persistence
// runs on its own context; a partial result must still reach the run
// record instead of the run staying "running" forever.
func (h *AnalyzeHandler) finishRun(run *types.AnalysisRun, result *service.AnalysisResult, runErr error) {
	switch {
	case runErr != nil && result == nil:
		run.Status = types.RunStatusFailed
	case runErr != nil:
		run.Status = types.RunStatusPartial
	default:
		run.Status = types.RunStatusCompleted
	}
	if result != nil {
		run.Output = result.Output
	}
	run.CompletedAt = time.Now().Unix()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := h.runRepo.UpdateRun(ctx, run); err != nil {
		log.Printf("Error updating run %s: %v", run.ID, err)
	}
	if result != nil && h.vectorDB != nil {
		if err := h.storeSections(ctx, run.ID, result.Ranked); err != nil {
			log.Printf("Error storing sections for run %s: %v", run.ID, err)
		}
	}
}

// storeSections persists ranked sections with fresh embeddings so they
// stay searchable after the run completes.
func (h *AnalyzeHandler) storeSections(ctx context.Context, runID string, ranked []types.RankedSection) error {
	if len(ranked) == 0 {
		return nil
	}

	texts := make([]string, len(ranked))
	records := make([]database.SectionRecord, len(ranked))
	now := time.Now().Unix()
	for i, rs := range ranked {
		texts[i] = embedText(rs.Section.Title, rs.Section.BodyText, h.cfg.SectionEmbedChars)
		records[i] = database.SectionRecord{
			RunID:     runID,
			Document:  rs.Section.Document,
			Title:     rs.Section.Title,
			Content:   rs.Section.BodyText,
			Page:      rs.Section.Page,
			Level:     rs.Section.Level.String(),
			CreatedAt: now,
		}
	}

	embeddings, err := h.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		// Store unindexed rather than losing the sections.
		log.Printf("Warning: embedding sections for run %s failed: %v", runID, err)
		embeddings = nil
	}
	return h.vectorDB.BatchInsertSections(ctx, records, embeddings)
}

func embedText(title, body string, limit int) string {
	runes := []rune(body)
	if limit > 0 && len(runes) > limit {
		body = string(runes[:limit])
	}
	return strings.TrimSpace(title + " " + body)
}

// HandleGetRun returns one run, including its output once completed.
func (h *AnalyzeHandler) HandleGetRun(c *gin.Context) {
	id := c.Param("id")
	run, err := h.runRepo.GetRun(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  false,
			Message: "Run not found",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   run,
	})
}

// HandleListRuns lists runs, newest first.
func (h *AnalyzeHandler) HandleListRuns(c *gin.Context) {
	var status []string
	if raw := c.Query("status"); raw != "" {
		status = strings.Split(raw, ",")
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	runs, err := h.runRepo.ListRuns(c.Request.Context(), status, 0, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   runs,
	})
}
