package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cascadehls/xilcore"
	"github.com/cascadehls/xilcore/fu"
	"github.com/cascadehls/xilcore/xilcoretest"
	"github.com/cascadehls/xilcore/xilmap"
)

var mappersCmd = &cobra.Command{
	Use:   "mappers",
	Short: "List the opcodes each registered XIL mapper supports.",
	RunE:  runMappers,
}

func init() {
	rootCmd.AddCommand(mappersCmd)
}

func runMappers(cmd *cobra.Command, args []string) error {
	k := xilcore.NewKernel(0, logrus.StandardLogger())
	defer k.Dispose()
	binder := xilcoretest.NewBinder(k)

	bcu, err := fu.NewBCU(k, 4, 1, xilcore.Zeros(4))
	if err != nil {
		return err
	}
	bcuSite := fu.NewBCUTransactionSite(bcu)
	if err := bcuSite.Establish(binder); err != nil {
		return err
	}

	mappers := []xilcore.IXILMapper{
		xilmap.NewBCUMapper(bcuSite),
		xilmap.NewMUX2Mapper(binder),
	}
	for _, m := range mappers {
		fmt.Fprintf(cmd.OutOrStdout(), "%T:\n", m)
		for _, op := range m.SupportedInstructions() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", op)
		}
	}
	return nil
}
