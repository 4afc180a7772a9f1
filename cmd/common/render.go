package common

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/card-advisor/internal/dateutils"
	"fjacquet/card-advisor/internal/models"
	"fjacquet/card-advisor/pkg/advisor"

	"github.com/charmbracelet/lipgloss"
)

var (
	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	// HeaderStyle is used for table headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	// WarningStyle formats warnings.
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	// SubtleStyle formats secondary text.
	SubtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// PrintClassification writes a one-line classification summary.
func PrintClassification(w io.Writer, merchant string, result models.ClassificationResult) {
	if !result.Matched() {
		fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(merchant+":"), WarningStyle.Render("no category found"))
		fmt.Fprintln(w, SubtleStyle.Render(result.Reasoning))
		return
	}
	category := result.CategoryID
	if result.SubcategoryID != "" {
		category += " / " + result.SubcategoryID
	}
	fmt.Fprintf(w, "%s %s (%s, confidence %.2f)\n",
		TitleStyle.Render(merchant+":"), category, result.Source, result.Confidence)
	fmt.Fprintln(w, SubtleStyle.Render(result.Reasoning))
}

// PrintRanking writes one strategy's ranked cards as a table followed by the
// explanation of each.
func PrintRanking(w io.Writer, name models.StrategyName, scored []models.ScoredCard) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Strategy: %s", name)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("#"), HeaderStyle.Render("Card"), HeaderStyle.Render("Value"), HeaderStyle.Render("Status"))
	for i, sc := range scored {
		status := "ok"
		if !sc.Recommendable {
			status = "withheld"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, sc.Card.DisplayName(), value(sc), status)
	}
	_ = tw.Flush()

	for _, sc := range scored {
		fmt.Fprintln(w, "  "+sc.Explanation)
		if sc.Warning != "" {
			fmt.Fprintln(w, "  "+WarningStyle.Render("! "+sc.Warning))
		}
	}
}

func value(sc models.ScoredCard) string {
	switch sc.Strategy {
	case models.StrategyRewards:
		return fmt.Sprintf("%s (%s)", models.FormatUSD(sc.Cashback), models.FormatMultiplier(sc.Multiplier))
	case models.StrategyAPR:
		if !sc.Card.HasAPR() {
			return "n/a"
		}
		return models.FormatUSD(sc.MonthlyInterest) + "/mo"
	case models.StrategyGracePeriod:
		if sc.DueDate.IsZero() {
			return "n/a"
		}
		return fmt.Sprintf("%d days (due %s)", sc.FloatDays, dateutils.ToISODate(sc.DueDate))
	}
	return fmt.Sprintf("%.2f", sc.Score)
}

// PrintObligations writes each card's payment obligations.
func PrintObligations(w io.Writer, entries []advisor.CardObligations) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("Card"), HeaderStyle.Render("Statement"), HeaderStyle.Render("Due"),
		HeaderStyle.Render("Days"), HeaderStyle.Render("Status"))
	for _, entry := range entries {
		for _, o := range entry.Obligations {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				entry.Card.DisplayName(), dateutils.ToISODate(o.StatementClose), dateutils.ToISODate(o.DueDate),
				o.DaysUntilDue, o.Status)
		}
	}
	_ = tw.Flush()

	for _, entry := range entries {
		if entry.Warning != "" {
			fmt.Fprintln(w, WarningStyle.Render("! "+entry.Warning))
		}
	}
}
