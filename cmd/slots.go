package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/calendar"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
)

// newSlotsCmd печатает сетку слотов на дату с настройками по умолчанию (без хранилища)
func newSlotsCmd() *cobra.Command {
	var (
		date     string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the slot grid for a date using default business settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", timezone, err)
			}
			now := time.Now().In(loc)

			day := calendar.Today(now)
			if date != "" {
				if day, err = domain.ParseDate(date); err != nil {
					return fmt.Errorf("invalid date %q, expected %s", date, domain.DateFormat)
				}
			}

			settings := domain.DefaultBusinessSettings()
			slots := calendar.GenerateTimeSlots(day, now, nil, settings)
			if len(slots) == 0 {
				next := calendar.GetNextAvailableDate(now, settings)
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not bookable, next available date: %s\n",
					day.Format(domain.DateFormat), next.Format(domain.DateFormat))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tAVAILABLE")
			for _, s := range slots {
				fmt.Fprintf(w, "%s\t%s\t%t\n", domain.BookingIdentity(s.Date, s.Time), s.Time, s.Available)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date in YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&timezone, "tz", "Europe/Sofia", "business timezone")
	return cmd
}
