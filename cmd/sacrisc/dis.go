package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ezrec/sacrisc/cpu"
	"github.com/ezrec/sacrisc/emulator"
)

var disBase int32

// disCmd represents the dis command
var disCmd = &cobra.Command{
	Use:   "dis file",
	Short: "Disassemble a byte-code image",
	Long: `Dis prints the instructions of a byte-code image, one to a line,
with their addresses. Source files are assembled first, and their
listing includes the source line numbers.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		emu := emulator.NewEmulator(0)
		emu.Verbose = verbose

		image, prog, err := loadImage(emu, path)
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}

		out := cmd.OutOrStdout()

		if prog != nil {
			for _, line := range prog.All() {
				fmt.Fprintf(out, "%04x %4d: %v\n", uint32(disBase)+uint32(line.Addr), line.LineNo, line)
			}
			return
		}

		list, err := cpu.Disassemble(image, disBase)
		for _, ins := range list {
			fmt.Fprintf(out, "%04x: %v\n", uint32(ins.Addr), ins)
		}
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
	},
}

func init() {
	disCmd.Flags().Int32VarP(&disBase, "base", "b", 0, "Load address of the image")
	rootCmd.AddCommand(disCmd)
}
