package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd() *cobra.Command {
	var ticks int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a bounded number of scheduler ticks and report final counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer log.Sync()

			r, _, err := buildSimulator(cfgFile, log)
			if err != nil {
				return err
			}
			defer r.Destroy()

			for i := 0; i < ticks; i++ {
				if err := r.Tick(1); err != nil {
					return err
				}
			}

			s := r.Scheduler()
			log.Info("simulation finished",
				zap.Int("ticks", ticks),
				zap.Uint8("task_count", s.TaskCount()),
				zap.Uint64("context_switches", s.ContextSwitches()),
				zap.Uint64("preemptions", s.Preemptions()),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 1000, "number of 1ms ticks to simulate")
	return cmd
}
