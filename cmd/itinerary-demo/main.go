// README: Command-line demo; generates one itinerary with the API's config and planners and prints it.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wayfarer/cmd/fx/ai_fx"
	"wayfarer/internal/config"
	"wayfarer/internal/infra"
	"wayfarer/internal/modules/itinerary"
)

type demoFlags struct {
	from   string
	to     string
	days   int
	budget float64
	family string
	mock   bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f demoFlags
	cmd := &cobra.Command{
		Use:           "itinerary-demo",
		Short:         "Generate a day-by-day travel itinerary",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := run(cmd.Context(), f, cmd)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&f.from, "from", "", "origin city")
	cmd.Flags().StringVar(&f.to, "to", "", "destination")
	cmd.Flags().IntVar(&f.days, "days", 3, "number of days")
	cmd.Flags().Float64Var(&f.budget, "budget", 20000, "total budget")
	cmd.Flags().StringVar(&f.family, "family", string(itinerary.FamilyCouple), "solo, couple, family-kids or family-elder")
	cmd.Flags().BoolVar(&f.mock, "mock", false, "use the deterministic mock planner instead of the model")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func run(ctx context.Context, f demoFlags, cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if f.mock {
		cfg.AI.UseLLM = false
	}

	logger, err := infra.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	svc, closeFn, err := ai_fx.NewItineraryService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	req := itinerary.TripRequest{
		FromCity:     f.from,
		Destination:  f.to,
		NumberOfDays: f.days,
		Budget:       f.budget,
		FamilyType:   itinerary.FamilyType(f.family),
	}
	logger.Info("generating itinerary", zap.String("request", req.String()))

	res, err := svc.Generate(ctx, req)
	if err != nil {
		e := itinerary.Classify(err)
		if e.Raw != nil && *e.Raw != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "raw model output:")
			fmt.Fprintln(cmd.ErrOrStderr(), *e.Raw)
		}
		return fmt.Errorf("%s (%d): %s", e.Code, e.Status, e.Message)
	}

	out, err := json.MarshalIndent(res.Itinerary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	fmt.Fprintln(cmd.ErrOrStderr(), "source: "+res.Source+", total estimated cost: "+strconv.FormatFloat(res.Itinerary.TotalEstimatedCost(), 'f', 0, 64))
	return nil
}
