package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/nutrition-app/internal/apiclient"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
)

// bodyFlags флаги текущих замеров. В патч попадают только заданные флаги.
type bodyFlags struct {
	gender   string
	age      int
	height   float64
	weight   float64
	bf       float64
	activity float64
}

func (f *bodyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.gender, "gender", "", "Gender: male or female")
	cmd.Flags().IntVar(&f.age, "age", 0, "Age in years")
	cmd.Flags().Float64Var(&f.height, "height", 0, "Height in cm")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "Weight in kg")
	cmd.Flags().Float64Var(&f.bf, "bf", 0, "Body fat percentage")
	cmd.Flags().Float64Var(&f.activity, "activity", 0, "Activity factor: 1.2, 1.375, 1.55, 1.725 or 1.9")
}

func (f *bodyFlags) patch(cmd *cobra.Command) (models.BodyCurrentPatch, bool, error) {
	var p models.BodyCurrentPatch
	fl := cmd.Flags()
	if fl.Changed("gender") {
		g := models.Gender(f.gender)
		p.Gender = &g
	}
	if fl.Changed("age") {
		p.Age = &f.age
	}
	if fl.Changed("height") {
		p.Height = &f.height
	}
	if fl.Changed("weight") {
		p.Weight = &f.weight
	}
	if fl.Changed("bf") {
		p.BF = &f.bf
	}
	if fl.Changed("activity") {
		p.Activity = &f.activity
	}
	changed := p != models.BodyCurrentPatch{}
	if !changed {
		return p, false, nil
	}
	if err := validator.New().Struct(p); err != nil {
		return p, false, err
	}
	return p, true, nil
}

func newBodyCommand(app *App) *cobra.Command {
	var flags bodyFlags

	cmd := &cobra.Command{
		Use:   "body",
		Short: "Update current body measurements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			patch, changed, err := flags.patch(cmd)
			if err != nil {
				return err
			}
			if !changed {
				return errors.New("nothing to update: pass at least one flag")
			}
			if err := app.Store.UpdateBodyCurrent(cmd.Context(), patch); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Body updated. BMI: %.1f\n", app.Store.BMI())
			app.reportSync(out)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newGoalCommand(app *App) *cobra.Command {
	var weight, bf float64

	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Update body goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var patch models.BodyGoalPatch
			if cmd.Flags().Changed("weight") {
				patch.Weight = &weight
			}
			if cmd.Flags().Changed("bf") {
				patch.BF = &bf
			}
			if patch == (models.BodyGoalPatch{}) {
				return errors.New("nothing to update: pass --weight or --bf")
			}
			if err := validator.New().Struct(patch); err != nil {
				return err
			}
			app.Store.UpdateBodyGoal(cmd.Context(), patch)

			goal := app.Store.Snapshot().Body.Goal
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Goal: %s kg, %s%% body fat\n", formatNumber(goal.Weight), formatNumber(goal.BF))
			app.reportSync(out)
			return nil
		},
	}
	cmd.Flags().Float64Var(&weight, "weight", 0, "Target weight in kg")
	cmd.Flags().Float64Var(&bf, "bf", 0, "Target body fat percentage")
	return cmd
}

func newMacrosCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "macros",
		Short: "Calculate or set daily macros",
	}

	calc := &cobra.Command{
		Use:   "calc",
		Short: "Calculate macros from body measurements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := app.Store.CalculateMacros(cmd.Context())
			out := cmd.OutOrStdout()
			printMacros(out, m)
			app.reportSync(out)
			return nil
		},
	}

	var kcal, proteins, carbs, fats int
	set := &cobra.Command{
		Use:   "set",
		Short: "Set macros manually (premium)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.Store.HasPremium() {
				return apiclient.ErrPremiumRequired
			}
			var patch models.MacrosPatch
			fl := cmd.Flags()
			if fl.Changed("kcal") {
				patch.Kcal = &kcal
			}
			if fl.Changed("proteins") {
				patch.Proteins = &proteins
			}
			if fl.Changed("carbs") {
				patch.Carbs = &carbs
			}
			if fl.Changed("fats") {
				patch.Fats = &fats
			}
			if err := validator.New().Struct(patch); err != nil {
				return err
			}
			app.Store.UpdateMacros(cmd.Context(), patch)

			out := cmd.OutOrStdout()
			printMacros(out, app.Store.Snapshot().Macros)
			app.reportSync(out)
			return nil
		},
	}
	set.Flags().IntVar(&kcal, "kcal", 0, "Calories")
	set.Flags().IntVar(&proteins, "proteins", 0, "Proteins, g")
	set.Flags().IntVar(&carbs, "carbs", 0, "Carbs, g")
	set.Flags().IntVar(&fats, "fats", 0, "Fats, g")

	cmd.AddCommand(calc, set)
	return cmd
}

func printMacros(out io.Writer, m models.Macros) {
	fmt.Fprintf(out, "Calories: %d kcal\nProteins: %dg\nCarbs: %dg\nFats: %dg\n", m.Kcal, m.Proteins, m.Carbs, m.Fats)
}
