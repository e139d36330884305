/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tieubaoca/docinsight-be/config"
	"github.com/tieubaoca/docinsight-be/service"
	"github.com/tieubaoca/docinsight-be/types"
	"github.com/tieubaoca/docinsight-be/utils"
)

const maxCollectionDocuments = 10

// analyzeCollectionCmd represents the analyze-collection command
var analyzeCollectionCmd = &cobra.Command{
	Use:   "analyze-collection",
	Short: "Rank the sections of a document collection against a persona",
	Long: `Reads input.json from the collection directory, processes the listed
PDFs, ranks every section against the persona and its job to be done,
and writes output.json next to the input.`,
	Run: func(cmd *cobra.Command, args []string) {
		collectionDir, _ := cmd.Flags().GetString("collection")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		embedder, err := buildEmbedder(cfg)
		if err != nil {
			log.Fatalf("Failed to init embedding provider: %v", err)
		}

		var input types.CollectionInput
		if err := utils.ReadJSONFile(filepath.Join(collectionDir, "input.json"), &input); err != nil {
			log.Fatalf("Failed to read collection input: %v", err)
		}
		if len(input.Documents) == 0 {
			log.Fatalf("Collection input lists no documents")
		}
		if len(input.Documents) > maxCollectionDocuments {
			log.Printf("Warning: collection lists %d documents, only the first %d are processed", len(input.Documents), maxCollectionDocuments)
			input.Documents = input.Documents[:maxCollectionDocuments]
		}
		if len(input.Documents) < 3 {
			log.Printf("Warning: collection lists only %d documents, ranking quality degrades on small collections", len(input.Documents))
		}

		refs := make([]service.DocumentRef, 0, len(input.Documents))
		for _, doc := range input.Documents {
			refs = append(refs, service.DocumentRef{
				Name: doc.Filename,
				Path: filepath.Join(collectionDir, "PDFs", doc.Filename),
			})
		}

		pipeline := service.NewPipelineService(service.NewPDFService(), embedder, nil, cfg.Analysis)
		result, err := pipeline.AnalyzeCollection(context.Background(), refs, input.Persona.Role, input.JobToBeDone.Task)
		if err != nil {
			if result == nil {
				log.Fatalf("Analysis failed: %v", err)
			}
			log.Printf("Warning: analysis finished partially: %v", err)
		}

		outPath := filepath.Join(collectionDir, "output.json")
		if err := utils.WriteJSONFile(outPath, result.Output); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		log.Printf("Wrote %s: %d sections, %d refined passages",
			outPath, len(result.Output.ExtractedSections), len(result.Output.SubSectionAnalysis))
	},
}

func init() {
	rootCmd.AddCommand(analyzeCollectionCmd)

	analyzeCollectionCmd.Flags().StringP("collection", "C", ".", "Collection directory holding input.json and a PDFs/ subdirectory")
}
