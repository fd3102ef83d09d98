package main

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
	shiftService "github.com/cmlabs-hris/hris-attendance/internal/service/shift"
	"github.com/spf13/cobra"
)

var resolveOpts struct {
	start  string
	end    string
	at     string
	policy string
	buffer time.Duration
}

// resolveDateCmd prints the attendance date an instant belongs to, for
// checking night-shift attribution without touching any data.
var resolveDateCmd = &cobra.Command{
	Use:     "resolve-date",
	Short:   "Show which attendance date an instant belongs to",
	Example: "  hrisctl resolve-date --start 22:00 --end 06:00 --at 2025-03-11T05:30:00+07:00",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := shift.ParseClock(resolveOpts.start)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		end, err := shift.ParseClock(resolveOpts.end)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		at := time.Now()
		if resolveOpts.at != "" {
			if at, err = time.Parse(time.RFC3339, resolveOpts.at); err != nil {
				return fmt.Errorf("--at must be RFC3339: %w", err)
			}
		}

		resolver, err := shiftService.NewResolver(resolveOpts.policy, resolveOpts.buffer)
		if err != nil {
			return err
		}

		cfg := shift.Config{StartTime: start, EndTime: end}
		date := resolver.Resolve(cfg, at)
		fmt.Fprintf(cmd.OutOrStdout(), "%s (night shift: %t, policy: %s)\n", date.Format(time.DateOnly), cfg.IsNightShift(), resolveOpts.policy)
		return nil
	},
}

func init() {
	resolveDateCmd.Flags().StringVar(&resolveOpts.start, "start", "09:30", "shift start time (HH:mm)")
	resolveDateCmd.Flags().StringVar(&resolveOpts.end, "end", "18:30", "shift end time (HH:mm)")
	resolveDateCmd.Flags().StringVar(&resolveOpts.at, "at", "", "instant to resolve (RFC3339), defaults to now")
	resolveDateCmd.Flags().StringVar(&resolveOpts.policy, "policy", shiftService.PolicyNoon, "date policy: noon or window")
	resolveDateCmd.Flags().DurationVar(&resolveOpts.buffer, "buffer", 2*time.Hour, "window policy buffer after shift end")
}
