package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/nutrition-app/internal/models"
)

const shownFeatures = 3

func newHomeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Dashboard: access status, health card and daily macros",
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderHome(cmd.OutOrStdout(), app)
			return nil
		},
	}
}

func renderHome(out io.Writer, app *App) {
	sess := app.Store.Session()
	if !sess.Valid() {
		fmt.Fprintln(out, "Nutrition App")
		fmt.Fprintln(out, "Track your body metrics and daily macros.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run `nutrition login` or `nutrition register` to get started.")
		return
	}

	p := app.Store.Snapshot()
	premium := app.Store.HasPremium()

	badge := "FREE"
	if premium {
		badge = "PREMIUM"
	}
	fmt.Fprintf(out, "Hello, %s!  [%s]\n", displayName(p.Common.Username, sess.Email), badge)
	fmt.Fprintln(out, sess.Email)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Access")
	fmt.Fprintf(out, "  Type:        %s\n", accessType(app, p))
	if p.Purchase.PurchasedAt != nil {
		fmt.Fprintf(out, "  Purchased:   %s\n", p.Purchase.PurchasedAt.Format("2006-01-02"))
	}
	if tx := p.Purchase.TransactionID; tx != "" {
		if len(tx) > 8 {
			tx = tx[:8] + "..."
		}
		fmt.Fprintf(out, "  Transaction: %s\n", tx)
	}
	features := app.Store.Features()
	fmt.Fprintln(out, "  Features:")
	for i, f := range features {
		if i == shownFeatures {
			break
		}
		fmt.Fprintf(out, "    - %s\n", f)
	}
	if len(features) > shownFeatures {
		fmt.Fprintf(out, "    and %d more\n", len(features)-shownFeatures)
	}
	fmt.Fprintln(out)

	cur := p.Body.Current
	fmt.Fprintln(out, "Health")
	fmt.Fprintf(out, "  Age:       %d years\n", cur.Age)
	fmt.Fprintf(out, "  Height:    %s cm\n", formatNumber(cur.Height))
	fmt.Fprintf(out, "  Weight:    %s kg\n", formatNumber(valueOrZero(cur.Weight)))
	fmt.Fprintf(out, "  BMI:       %.1f\n", app.Store.BMI())
	fmt.Fprintf(out, "  Activity:  %s\n", formatNumber(cur.Activity))
	fmt.Fprintf(out, "  Body fat:  %s%%\n", formatNumber(valueOrZero(cur.BF)))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Daily macros")
	fmt.Fprintf(out, "  Calories:  %d kcal\n", p.Macros.Kcal)
	fmt.Fprintf(out, "  Proteins:  %dg\n", p.Macros.Proteins)
	fmt.Fprintf(out, "  Carbs:     %dg\n", p.Macros.Carbs)
	fmt.Fprintf(out, "  Fats:      %dg\n", p.Macros.Fats)

	app.reportSync(out)
}

func accessType(app *App, p models.Profile) string {
	switch {
	case p.Purchase.Type == models.PurchaseLifetime:
		return "Lifetime access"
	case app.Store.IsInTrial():
		return fmt.Sprintf("Trial, %d days left", app.Store.DaysUntilSubscriptionEnds())
	case app.Store.IsSubscribed():
		return fmt.Sprintf("Subscription, %d days left", app.Store.DaysUntilSubscriptionEnds())
	default:
		return "Free"
	}
}

func displayName(username, email string) string {
	if username != "" {
		return username
	}
	name, _, _ := strings.Cut(email, "@")
	return name
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// formatNumber печатает число без лишних нулей: 180, 1.55, 72.5.
func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}
