package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vinfox/go_vin/internal/client"
	"github.com/vinfox/go_vin/internal/config"
	"github.com/vinfox/go_vin/internal/models"
	"github.com/vinfox/go_vin/internal/resolver"
	"github.com/vinfox/go_vin/internal/services"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vinctl",
		Short:         "Resolve vehicle identity and safety recalls for VINs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newResolveCommand())
	root.AddCommand(newBatchCommand())
	return root
}

// buildEngine wires the validator and upstream clients from configuration
func buildEngine() (*services.Validator, *client.DecodeAPIClient, *client.RecallAPIClient, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	validator := services.NewValidator()
	decodeClient := client.NewDecodeAPIClient(cfg.Decode.BaseURL, cfg.Decode.Timeout)
	recallClient := client.NewRecallAPIClient(cfg.Recall.BaseURL, cfg.Recall.Timeout)
	return validator, decodeClient, recallClient, cfg, nil
}

func newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <vin>",
		Short: "Resolve one VIN to vehicle attributes and recall campaigns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, decodeClient, recallClient, _, err := buildEngine()
			if err != nil {
				return err
			}

			r := resolver.NewResolver(validator, decodeClient, recallClient)
			outcome := r.Resolve(context.Background(), args[0])
			return printOutcome(cmd, outcome)
		},
	}
}

func newBatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file>",
		Short: "Bulk-decode VINs from a CSV file (decode only, no recalls)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, decodeClient, _, cfg, err := buildEngine()
			if err != nil {
				return err
			}

			rawText, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}

			b := resolver.NewBatchResolver(validator, decodeClient,
				cfg.Batch.MaxTokens, cfg.Batch.Concurrency)
			result := b.ResolveBatch(context.Background(), string(rawText))
			return printBatchResult(cmd, result)
		},
	}
}

// outcomeOutput is the CLI's serializable view of a ResolutionOutcome
type outcomeOutput struct {
	VIN          string                    `json:"vin"`
	Status       models.OutcomeStatus      `json:"status"`
	Vehicle      *models.VehicleAttributes `json:"vehicle,omitempty"`
	RecallsKnown bool                      `json:"recalls_known"`
	Recalls      []models.RecallRecord     `json:"recalls,omitempty"`
	RecallError  string                    `json:"recall_error,omitempty"`
	Error        string                    `json:"error,omitempty"`
}

func printOutcome(cmd *cobra.Command, outcome models.ResolutionOutcome) error {
	out := outcomeOutput{
		VIN:          outcome.VIN.String(),
		Status:       outcome.Status,
		Vehicle:      outcome.Attributes,
		RecallsKnown: outcome.RecallsKnown(),
		Recalls:      outcome.Recalls,
	}
	if outcome.RecallErr != nil {
		out.RecallError = outcome.RecallErr.Error()
	}
	if outcome.Err != nil {
		out.Error = outcome.Err.Error()
	}
	return printJSON(cmd, out)
}

type batchItemOutput struct {
	VIN     string                    `json:"vin"`
	Vehicle *models.VehicleAttributes `json:"vehicle,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

type batchOutput struct {
	Items         []batchItemOutput `json:"items"`
	InvalidTokens string            `json:"invalid_tokens,omitempty"`
	TokensSeen    int               `json:"tokens_seen"`
	Capped        bool              `json:"capped"`
}

func printBatchResult(cmd *cobra.Command, result *models.BatchResult) error {
	out := batchOutput{
		Items:      make([]batchItemOutput, 0, len(result.Items)),
		TokensSeen: result.TokensSeen,
		Capped:     result.Capped,
	}
	for _, item := range result.Items {
		itemOut := batchItemOutput{VIN: item.VIN.String()}
		if item.Err != nil {
			itemOut.Error = item.Err.Error()
		} else {
			itemOut.Vehicle = item.Attributes
		}
		out.Items = append(out.Items, itemOut)
	}
	if result.Invalid != nil {
		out.InvalidTokens = result.Invalid.Error()
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
