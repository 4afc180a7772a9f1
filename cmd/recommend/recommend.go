// Package recommend handles the card recommendation command
package recommend

import (
	"fmt"
	"io"

	"fjacquet/card-advisor/cmd/common"
	"fjacquet/card-advisor/cmd/root"
	"fjacquet/card-advisor/internal/models"
	"fjacquet/card-advisor/pkg/advisor"

	"github.com/spf13/cobra"
)

// StrategyAll compares every strategy side by side.
const StrategyAll = "all"

// Flags holds the recommend command's flags
type Flags struct {
	Merchant string
	Code     int
	Category string
	Amount   string
	Date     string
	Strategy string
}

var flags = Flags{}

// Cmd represents the recommend command
var Cmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend which card to use for a purchase",
	Long: `Rank your cards for a purchase by rewards earned, interest cost or
interest-free float. Give either a merchant to classify or a category.`,
	RunE: recommendFunc,
}

func init() {
	Cmd.Flags().StringVarP(&flags.Merchant, "merchant", "m", "", "Merchant name")
	Cmd.Flags().IntVar(&flags.Code, "code", 0, "Merchant category code (optional)")
	Cmd.Flags().StringVarP(&flags.Category, "category", "g", "", "Category, subcategory or alias id instead of a merchant")
	Cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Purchase amount")
	Cmd.Flags().StringVarP(&flags.Date, "date", "t", "", "Purchase date (default today)")
	Cmd.Flags().StringVarP(&flags.Strategy, "strategy", "s", string(models.StrategyRewards), "rewards, apr, grace_period or all")
	_ = Cmd.MarkFlagRequired("amount")
	Cmd.MarkFlagsOneRequired("merchant", "category")
}

func recommendFunc(cmd *cobra.Command, args []string) error {
	if root.AppContainer == nil {
		return fmt.Errorf("application not initialized")
	}

	req, err := buildRequest(flags)
	if err != nil {
		return err
	}

	logger := root.AppContainer.GetLogger()
	store := root.AppContainer.GetCardStore()
	req.Cards, err = common.LoadCards(store, root.SharedFlags.Cards, logger)
	if err != nil {
		return err
	}

	adv := root.AppContainer.GetAdvisor()
	out := cmd.OutOrStdout()

	if flags.Strategy == StrategyAll {
		cmp, err := adv.Compare(cmd.Context(), req)
		if err != nil {
			return err
		}
		printHeader(out, req, cmp.Classification)
		var all []models.ScoredCard
		for _, name := range models.AllStrategies {
			common.PrintRanking(out, name, cmp.Results[name])
			all = append(all, cmp.Results[name]...)
		}
		return common.ExportResults(store, root.SharedFlags.Output, all)
	}

	name, ok := models.ParseStrategyName(flags.Strategy)
	if !ok {
		return fmt.Errorf("unknown strategy %q (want rewards, apr, grace_period or all)", flags.Strategy)
	}
	rec, err := adv.Recommend(cmd.Context(), req, name)
	if err != nil {
		return err
	}
	printHeader(out, req, rec.Classification)
	common.PrintRanking(out, name, rec.Results)
	return common.ExportResults(store, root.SharedFlags.Output, rec.Results)
}

func buildRequest(f Flags) (advisor.Request, error) {
	if f.Merchant == "" && f.Category == "" {
		return advisor.Request{}, fmt.Errorf("either --merchant or --category is required")
	}
	amount, err := common.ParseAmount(f.Amount)
	if err != nil {
		return advisor.Request{}, err
	}
	date, err := common.ParseDate(f.Date)
	if err != nil {
		return advisor.Request{}, err
	}
	return advisor.Request{
		Merchant: f.Merchant,
		Code:     f.Code,
		Category: f.Category,
		Amount:   amount,
		Date:     date,
	}, nil
}

func printHeader(w io.Writer, req advisor.Request, result models.ClassificationResult) {
	label := req.Merchant
	if req.Category != "" {
		label = req.Category
	}
	common.PrintClassification(w, label, result)
}
