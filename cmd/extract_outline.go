/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tieubaoca/docinsight-be/config"
	"github.com/tieubaoca/docinsight-be/service"
	"github.com/tieubaoca/docinsight-be/utils"
)

// extractOutlineCmd represents the extract-outline command
var extractOutlineCmd = &cobra.Command{
	Use:   "extract-outline",
	Short: "Extract the heading outline of every PDF in a directory",
	Long: `Reads every PDF in the input directory and writes one JSON file per
document to the output directory, each holding the inferred title and
heading hierarchy. A document that fails to parse is logged and
skipped; the rest of the batch continues.`,
	Run: func(cmd *cobra.Command, args []string) {
		inputDir, _ := cmd.Flags().GetString("input")
		outputDir, _ := cmd.Flags().GetString("output")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		// Outline extraction needs no embedder; the pipeline only
		// touches it during ranking.
		pipeline := service.NewPipelineService(service.NewPDFService(), nil, nil, cfg.Analysis)

		names, err := utils.ListPDFFiles(inputDir)
		if err != nil {
			log.Fatalf("Failed to read input directory: %v", err)
		}
		if len(names) == 0 {
			log.Fatalf("No PDF files found in %s", inputDir)
		}

		failed := 0
		for _, name := range names {
			outline, err := pipeline.ExtractOutline(filepath.Join(inputDir, name))
			if err != nil {
				log.Printf("Failed to extract outline of %s: %v", name, err)
				failed++
				continue
			}

			outName := strings.TrimSuffix(name, filepath.Ext(name)) + ".json"
			outPath := filepath.Join(outputDir, outName)
			if err := utils.WriteJSONFile(outPath, outline); err != nil {
				log.Printf("Failed to write %s: %v", outPath, err)
				failed++
				continue
			}
			log.Printf("Extracted outline of %s -> %s", name, outPath)
		}
		log.Printf("Done: %d processed, %d failed", len(names)-failed, failed)
	},
}

func init() {
	rootCmd.AddCommand(extractOutlineCmd)

	extractOutlineCmd.Flags().StringP("input", "i", "input", "Directory holding the PDF files")
	extractOutlineCmd.Flags().StringP("output", "o", "output", "Directory receiving the outline JSON files")
}
