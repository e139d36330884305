package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tieubaoca/docinsight-be/config"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

var (
	SECTION_CLASS        = "Section"
	SECTION_CLASS_OBJECT = &models.Class{
		Class: SECTION_CLASS,
		Properties: []*models.Property{
			{Name: "runId", DataType: []string{"text"}},
			{Name: "document", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "content", DataType: []string{"text"}},
			{Name: "page", DataType: []string{"int"}},
			{Name: "level", DataType: []string{"text"}},
			{Name: "createdAt", DataType: []string{"int"}},
		},
		// Embeddings are produced by our own providers, never by
		// Weaviate modules.
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(config config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
		cfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     config.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasSectionClass := false
	for _, class := range schema.Classes {
		if class.Class == SECTION_CLASS {
			hasSectionClass = true
			break
		}
	}
	if !hasSectionClass {
		err = client.Schema().ClassCreator().WithClass(SECTION_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create Section class: %v", err)
		}
	}
	return &WeaviateStore{
		client: client,
	}, nil
}

func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(SECTION_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete Section class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(SECTION_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create Section class: %v", err)
	}
	return nil
}

// BatchInsertSections writes sections and their embeddings in chunks.
// embeddings[i] pairs with sections[i]; a missing vector stores the
// section unindexed.
func (s *WeaviateStore) BatchInsertSections(ctx context.Context, sections []SectionRecord, embeddings [][]float32) error {
	total := len(sections)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			properties := map[string]interface{}{
				"runId":     sections[j].RunID,
				"document":  sections[j].Document,
				"title":     sections[j].Title,
				"content":   sections[j].Content,
				"page":      sections[j].Page,
				"level":     sections[j].Level,
				"createdAt": sections[j].CreatedAt,
			}

			obj := &models.Object{
				Class:      SECTION_CLASS,
				Properties: properties,
			}
			if embeddings != nil && j < len(embeddings) && embeddings[j] != nil {
				obj.Vector = models.C11yVector(embeddings[j])
			}
			batcher = batcher.WithObjects(obj)
		}

		_, err := batcher.Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}

		log.Printf("Inserted batch %d-%d of %d sections", i, end, total)
	}

	return nil
}

// SearchSimilar returns the sections nearest to vector, optionally
// restricted to one run.
func (s *WeaviateStore) SearchSimilar(ctx context.Context, vector []float32, runID string, limit int) ([]SectionRecord, error) {
	fields := []graphql.Field{
		{Name: "runId"},
		{Name: "document"},
		{Name: "title"},
		{Name: "content"},
		{Name: "page"},
		{Name: "level"},
		{Name: "createdAt"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	getBuilder := s.client.GraphQL().Get().
		WithClassName(SECTION_CLASS).
		WithFields(fields...).
		WithNearVector(nearVector)
	if limit > 0 {
		getBuilder = getBuilder.WithLimit(limit)
	}
	if runID != "" {
		getBuilder = getBuilder.WithWhere(filters.Where().
			WithPath([]string{"runId"}).
			WithOperator(filters.Equal).
			WithValueString(runID))
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var records []SectionRecord
	if data, ok := result.Data["Get"].(map[string]interface{})[SECTION_CLASS].([]interface{}); ok {
		for _, item := range data {
			if raw, ok := item.(map[string]interface{}); ok {
				record := SectionRecord{
					RunID:     stringProp(raw, "runId"),
					Document:  stringProp(raw, "document"),
					Title:     stringProp(raw, "title"),
					Content:   stringProp(raw, "content"),
					Page:      intProp(raw, "page"),
					Level:     stringProp(raw, "level"),
					CreatedAt: int64(floatProp(raw, "createdAt")),
				}
				if additional, ok := raw["_additional"].(map[string]interface{}); ok {
					if id, ok := additional["id"].(string); ok {
						record.ID = id
					}
					if distance, ok := additional["distance"].(float64); ok {
						record.Distance = float32(distance)
					}
				}
				records = append(records, record)
			}
		}
	}

	return records, nil
}

// DeleteRunSections removes every section stored for a run.
func (s *WeaviateStore) DeleteRunSections(ctx context.Context, runID string) error {
	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(SECTION_CLASS).
		WithWhere(filters.Where().
			WithPath([]string{"runId"}).
			WithOperator(filters.Equal).
			WithValueString(runID)).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete sections for run %s: %v", runID, err)
	}
	return nil
}

// Helper functions
func stringProp(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

func floatProp(raw map[string]interface{}, key string) float64 {
	if v, ok := raw[key].(float64); ok {
		return v
	}
	return 0
}

func intProp(raw map[string]interface{}, key string) int {
	return int(floatProp(raw, key))
}
