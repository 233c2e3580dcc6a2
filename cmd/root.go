package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/arnegilmore/microplace/internal/config"
)

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "microplace",
	Short: "Microservice-to-node placement solver",
	Long: `microplace decides which node each microservice container should run on,
minimizing infrastructure cost plus inter-node data-transfer cost.

It offers an exact engine (an integer-program formulation) and a PSO
(Particle Swarm Optimization) engine over the same cost model.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: microplace.yaml)")
}
