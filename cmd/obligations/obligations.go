// Package obligations lists upcoming and overdue card payments
package obligations

import (
	"fmt"

	"fjacquet/card-advisor/cmd/common"
	"fjacquet/card-advisor/cmd/root"

	"github.com/spf13/cobra"
)

var date string

// Cmd represents the obligations command
var Cmd = &cobra.Command{
	Use:   "obligations",
	Short: "List the payments each card owes",
	Long:  `List the previous and current statement payments of each card, flagging overdue and due-soon ones.`,
	RunE:  obligationsFunc,
}

func init() {
	Cmd.Flags().StringVarP(&date, "date", "t", "", "Reference date (default today)")
}

func obligationsFunc(cmd *cobra.Command, args []string) error {
	if root.AppContainer == nil {
		return fmt.Errorf("application not initialized")
	}
	reference, err := common.ParseDate(date)
	if err != nil {
		return err
	}

	logger := root.AppContainer.GetLogger()
	cards, err := common.LoadCards(root.AppContainer.GetCardStore(), root.SharedFlags.Cards, logger)
	if err != nil {
		return err
	}

	entries := root.AppContainer.GetAdvisor().Obligations(cards, reference)
	common.PrintObligations(cmd.OutOrStdout(), entries)
	return nil
}
