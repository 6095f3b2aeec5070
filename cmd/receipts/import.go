package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foxxcyber/receipt-feed/internal/config"
	"github.com/foxxcyber/receipt-feed/internal/database"
	"github.com/foxxcyber/receipt-feed/internal/logger"
	"github.com/foxxcyber/receipt-feed/internal/models"
	"github.com/foxxcyber/receipt-feed/internal/services"
)

func importCmd(cfg *config.Config) *cobra.Command {
	var (
		source string
		email  string
	)

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Parse receipt text files and save them for a user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			names, texts, err := readInputs(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			db, err := database.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := db.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
			if err != nil {
				return fmt.Errorf("failed to find user %s: %w", email, err)
			}

			var archive services.Archiver
			storage, err := services.NewStorageServiceFromConfig(ctx, cfg)
			if err != nil {
				logger.Warn("Receipt archive disabled", "error", err)
			} else if storage != nil {
				archive = storage
			}

			svc := services.NewReceiptService(db, archive, services.NewItemMatcher(db), nil)

			results := make([]*models.ParseResponse, 0, len(texts))
			for i, text := range texts {
				result, err := svc.Import(ctx, user.ID, text, source)
				if err != nil {
					return fmt.Errorf("%s: %w", names[i], err)
				}
				logger.Info("Imported receipt", "file", names[i], "receipt_id", result.ReceiptID, "items", result.TotalItems)
				results = append(results, result)
			}

			return writeJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Receipt source (kroger, walmart, costco; anything else is generic)")
	cmd.Flags().StringVar(&email, "email", "", "Email of the user the receipts belong to")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("email")

	return cmd
}
