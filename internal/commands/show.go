package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinsei-trade/permit-ledger/internal/ledger"
	"github.com/shinsei-trade/permit-ledger/internal/permit"
)

// showOutput is the JSON document printed for one parsed permit.
type showOutput struct {
	Permit *permit.ImportPermit `json:"permit"`
	Rows   []ledger.Row         `json:"rows"`
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <permit.pdf>",
		Short: "Parse one import permit and print the record and its ledger rows as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.newPipeline()
			result, err := p.Process(context.Background(), args[0])
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(showOutput{Permit: result.Permit, Rows: result.Rows}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render output: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
