// Command v4rtos-sim drives a reference V4-RTOS instance against
// internal/vmcore's reference bytecode VM, either for a bounded number of
// ticks or continuously while serving Prometheus metrics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:     "v4rtos-sim",
		Short:   "Simulate a V4-RTOS scheduler instance",
		Version: "dev",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "task manifest YAML file")

	root.AddCommand(newRunCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
