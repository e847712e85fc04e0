package main

import (
	"github.com/spf13/cobra"

	ucBooking "github.com/BruksfildServices01/cast-scheduler/internal/usecase/booking"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Persist the expiry of lapsed edit windows once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := ucBooking.NewExpireEditWindows(a.deps).Execute(cmd.Context())
			log.WithField("reverted", n).Info("sweep finished")
			return err
		},
	}
}
