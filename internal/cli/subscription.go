package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/nutrition-app/internal/apiclient"
)

func newSubscriptionCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Manage the monthly subscription",
	}

	activate := &cobra.Command{
		Use:   "activate",
		Short: "Activate a 30-day subscription",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.Store.SwitchToPaid(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subscription active, %d days left\n", app.Store.DaysUntilSubscriptionEnds())
			app.reportSync(out)
			return nil
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the subscription and return to the free plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.Store.ResetToFree(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Subscription canceled, you are on the free plan")
			app.reportSync(out)
			return nil
		},
	}

	cmd.AddCommand(activate, cancel)
	return cmd
}

func newPurchaseCommand(app *App) *cobra.Command {
	var paymentToken string

	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Buy lifetime premium access",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.session()
			if err != nil {
				return err
			}
			payment, err := app.API.CreatePurchase(cmd.Context(), sess.Token, paymentToken)
			if err != nil {
				if errors.Is(err, apiclient.ErrConflict) {
					return errors.New("lifetime access is already purchased")
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Payment %s: %s\n", payment.ID, payment.Status)
			fmt.Fprintln(out, "Access is granted once the payment is confirmed. Run `nutrition sync pull` to refresh.")
			return nil
		},
	}
	cmd.Flags().StringVar(&paymentToken, "token", "", "Payment method token")
	_ = cmd.MarkFlagRequired("token")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show purchase status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.session()
			if err != nil {
				return err
			}
			st, err := app.API.PurchaseStatus(cmd.Context(), sess.Token)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Type: %s\nPremium: %t\n", st.Type, st.Premium)
			if st.PurchasedAt != nil {
				fmt.Fprintf(out, "Purchased: %s\n", st.PurchasedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
	cmd.AddCommand(status)
	return cmd
}
