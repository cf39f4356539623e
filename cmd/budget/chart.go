package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/ledger"
	"github.com/Veraticus/budget-manager/internal/model"
)

const chartWidth = 40

func (a *app) chartCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart the running balance of each account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			s, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			series, err := ledger.NewService(s.user).Series(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(series) == 0 {
				writeLine(out, cli.FormatInfo("Nothing to chart"))
				return nil
			}
			for _, sr := range series {
				renderSeries(out, sr)
			}
			return nil
		},
	}
	flags.register(cmd, false)

	return cmd
}

// renderSeries prints one bar per day of the running balance of sr.
func renderSeries(w io.Writer, sr ledger.Series) {
	writeLine(w, cli.TitleStyle.Render(cli.ChartIcon+" "+sr.Account))
	points := ledger.Cumulative(sr.Points)
	if len(points) == 0 {
		writeLine(w, cli.SubtleStyle.Render("  no transactions"))
		return
	}

	var peak float64
	for _, p := range points {
		peak = math.Max(peak, math.Abs(p.Amount))
	}

	for _, p := range points {
		n := 0
		if peak > 0 {
			n = int(math.Round(math.Abs(p.Amount) / peak * chartWidth))
		}
		bar := strings.Repeat("█", n)
		if p.Amount < 0 {
			bar = cli.ErrorStyle.Render(bar)
		} else {
			bar = cli.SuccessStyle.Render(bar)
		}
		writeLine(w, fmt.Sprintf("  %s %12s %s", p.Date.Format(model.DateLayout), cli.FormatSigned(p.Amount), bar))
	}
}
