package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cascadehls/xilcore"
	"github.com/cascadehls/xilcore/fu"
	"github.com/cascadehls/xilcore/xilcoretest"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] script",
	Short: "Drive a BCU+MUX2 scenario from a stimulus script and print the trace.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("addr-width", 4, "BCU address width, in bits")
	runCmd.Flags().Int("latency", 1, "BCU latency, in cycles")
	runCmd.Flags().Int("mux-width", 4, "MUX2 data width, in bits")
}

func runRun(cmd *cobra.Command, args []string) error {
	if getFlagBool(cmd, "verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	}
	addrWidth, _ := cmd.Flags().GetInt("addr-width")
	latency, _ := cmd.Flags().GetInt("latency")
	muxWidth, _ := cmd.Flags().GetInt("mux-width")

	script, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	k := xilcore.NewKernel(0, logrus.StandardLogger())
	defer k.Dispose()

	binder := xilcoretest.NewBinder(k)

	bcu, err := fu.NewBCU(k, addrWidth, latency, xilcore.Zeros(addrWidth))
	if err != nil {
		return err
	}
	bcuSite := fu.NewBCUTransactionSite(bcu)
	if err := bcuSite.Establish(binder); err != nil {
		return err
	}

	mux, err := fu.NewMUX2(k, muxWidth)
	if err != nil {
		return err
	}
	muxSite := fu.NewMUX2TransactionSite(mux)
	if err := muxSite.Establish(binder); err != nil {
		return err
	}

	watch := []string{"rst", "brP", "brN", "alt_addr", "out_addr", "a", "b", "sel", "r"}
	tr, err := xilcoretest.DriveScript(k, binder, string(script), watch)
	if err != nil {
		return err
	}

	printTrace(cmd, tr)
	return nil
}

func printTrace(cmd *cobra.Command, tr *xilcoretest.Trace) {
	colorize := term.IsTerminal(int(os.Stdout.Fd()))
	header := ""
	for _, n := range tr.Names {
		header += fmt.Sprintf("%-10s", n)
	}
	if colorize {
		fmt.Fprintln(cmd.OutOrStdout(), "\x1b[1m"+header+"\x1b[0m")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), header)
	}
	for _, row := range tr.Values {
		line := ""
		for _, v := range row {
			line += fmt.Sprintf("%-10s", v.String())
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}
