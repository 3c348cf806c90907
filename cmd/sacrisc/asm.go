package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/sacrisc/emulator"
	"github.com/ezrec/sacrisc/io"
)

var asmOutput string
var asmDefines []string

// asmCmd represents the asm command
var asmCmd = &cobra.Command{
	Use:   "asm sourceFile",
	Short: "Assemble a source file into a byte-code image",
	Long: `Asm assembles one SAC-RISC source file into a byte-code image.

Equates may be predefined with -D NAME=expression, where the expression
may use any equate defined before it, and the machine defines such as
MEMORY_SIZE and REG_SP.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source := args[0]

		output := asmOutput
		if len(output) == 0 {
			output = strings.TrimSuffix(source, filepath.Ext(source)) + io.IMAGE_EXT
		}

		emu := emulator.NewEmulator(0)
		emu.Verbose = verbose

		as := emu.Assembler()
		for _, define := range asmDefines {
			name, expr, ok := strings.Cut(define, "=")
			if !ok || len(name) == 0 {
				log.Fatalf("-D %v: expected NAME=expression", define)
			}
			as.Predefine(name, expr)
		}

		prog, err := assembleFile(as, source)
		if err != nil {
			log.Fatalf("%v", err)
		}

		err = os.WriteFile(output, prog.Binary(), 0o644)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}

		if verbose {
			log.Printf("%v: %d bytes", output, prog.Len())
		}
	},
}

func init() {
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "Image file to write (default: source with .sac extension)")
	asmCmd.Flags().StringArrayVarP(&asmDefines, "define", "D", nil, "Predefine an equate, as NAME=expression")
	rootCmd.AddCommand(asmCmd)
}
