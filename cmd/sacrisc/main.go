// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ezrec/sacrisc/asm"
	"github.com/ezrec/sacrisc/emulator"
	"github.com/ezrec/sacrisc/io"
	"github.com/ezrec/sacrisc/translate"
)

var verbose bool
var language string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sacrisc",
	Short: "SAC-RISC assembler and emulator",
	Long: `sacrisc assembles SAC-RISC source into byte-code images, and runs
them on an emulated SAC-RISC machine with a line-buffered console.

Source files end in .s, and images end in .sac.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if len(language) != 0 {
			err = translate.SetLanguage(language)
		}
		return
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "Message language (default from the locale)")
}

// isImage returns true if the path names a byte-code image.
func isImage(path string) bool {
	return strings.EqualFold(filepath.Ext(path), io.IMAGE_EXT)
}

// assembleFile assembles a source file.
func assembleFile(as *asm.Assembler, path string) (prog *asm.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = as.Parse(inf)
	if err != nil {
		err = errors.Wrapf(err, "%v", path)
	}
	return
}

// loadImage returns the image in path, assembling it first if it is
// source. prog is nil for a byte-code image.
func loadImage(emu *emulator.Emulator, path string) (image []byte, prog *asm.Program, err error) {
	if isImage(path) {
		image, err = os.ReadFile(path)
		return
	}

	prog, err = assembleFile(emu.Assembler(), path)
	if err != nil {
		return
	}

	image = prog.Binary()
	return
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
