// Package classify handles the merchant classification command
package classify

import (
	"fmt"

	"fjacquet/card-advisor/cmd/common"
	"fjacquet/card-advisor/cmd/root"

	"github.com/spf13/cobra"
)

var (
	merchant string
	code     int
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a merchant into a spending category",
	Long: `Classify a merchant into a spending category using its merchant category code,
the catalog keywords and, when enabled, a Gemini hint.`,
	RunE: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant name to classify")
	Cmd.Flags().IntVar(&code, "code", 0, "Merchant category code (optional)")
	_ = Cmd.MarkFlagRequired("merchant")
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	if root.AppContainer == nil {
		return fmt.Errorf("application not initialized")
	}
	result := root.AppContainer.GetAdvisor().Classify(cmd.Context(), merchant, code)
	common.PrintClassification(cmd.OutOrStdout(), merchant, result)
	return nil
}
