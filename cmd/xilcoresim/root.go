// Package main implements xilcoresim, a small demo CLI that drives a
// BCU and a MUX2 from a stimulus script and prints the resulting
// per-cycle trace. Grounded on go-corset's pkg/cmd/root.go (a cobra
// root command with persistent flags, a package-level rootCmd, and an
// Execute() entry point called from main()).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xilcoresim",
	Short: "Drive a Branch Control Unit and a 2-to-1 multiplexer from a stimulus script.",
	Long: `xilcoresim is a demonstration harness for xilcore: it wires a BCU
and a MUX2 into a Kernel, drives them from a stimulus script, and
prints the resulting cycle-by-cycle trace.`,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
}

func getFlagBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
