package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/foxxcyber/receipt-feed/internal/models"
	"github.com/foxxcyber/receipt-feed/internal/parser"
	"github.com/foxxcyber/receipt-feed/internal/services"
)

// parsedFile is one entry of the parse command's output
type parsedFile struct {
	File   string              `json:"file"`
	Source parser.Source       `json:"source"`
	Items  []parser.ParsedItem `json:"items"`
	Total  decimal.Decimal     `json:"total"`
}

func parseCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse receipt text files (or stdin) and print the items as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, texts, err := readInputs(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			requests := make([]models.ParseRequest, len(texts))
			for i, text := range texts {
				requests[i] = models.ParseRequest{Text: text, Source: source}
			}

			svc := services.NewReceiptService(nil, nil, nil, nil)
			results, err := svc.ParseBatch(cmd.Context(), requests)
			if err != nil {
				return err
			}

			output := make([]parsedFile, len(results))
			for i, items := range results {
				total := decimal.Zero
				for _, item := range items {
					total = total.Add(item.Price)
				}
				output[i] = parsedFile{
					File:   names[i],
					Source: parser.Resolve(source),
					Items:  items,
					Total:  total,
				}
			}

			return writeJSON(cmd.OutOrStdout(), output)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Receipt source (kroger, walmart, costco; anything else is generic)")
	cmd.MarkFlagRequired("source")

	return cmd
}

// readInputs returns the contents of each file, or of in when no files are given
func readInputs(in io.Reader, files []string) ([]string, []string, error) {
	if len(files) == 0 {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []string{"-"}, []string{string(data)}, nil
	}

	texts := make([]string, len(files))
	for i, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		texts[i] = string(data)
	}
	return files, texts, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
