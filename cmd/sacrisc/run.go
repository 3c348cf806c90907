package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/sacrisc/emulator"
)

var runMemory int
var runBase int32
var runMaxTicks int
var runInput string
var runOutput string
var runDepot string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run file",
	Short: "Run a source file or byte-code image",
	Long: `Run loads a program and runs it until it halts or faults.

The file may be SAC-RISC source, which is assembled first, or a .sac
byte-code image. With --depot, the argument names an image stored in
the depot directory instead.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		emu := emulator.NewEmulator(runMemory)
		emu.Verbose = verbose
		emu.MaxTicks = runMaxTicks

		if len(runDepot) != 0 {
			err := emu.Depot.Unmarshal(os.DirFS(runDepot))
			if err != nil {
				log.Fatalf("%v: %v", runDepot, err)
			}
			err = emu.LoadImage(path, runBase)
			if err != nil {
				log.Fatalf("%v: %v", path, err)
			}
		} else {
			image, prog, err := loadImage(emu, path)
			if err != nil {
				log.Fatalf("%v: %v", path, err)
			}
			if prog != nil {
				err = emu.LoadProgram(prog, runBase)
			} else {
				err = emu.Load(image, runBase)
			}
			if err != nil {
				log.Fatalf("%v: %v", path, err)
			}
		}

		if runInput == "-" {
			emu.Tape.Input = os.Stdin
		} else {
			inf, err := os.Open(runInput)
			if err != nil {
				log.Fatalf("%v: %v", runInput, err)
			}
			defer inf.Close()
			emu.Tape.Input = inf
		}

		if runOutput == "-" {
			emu.Tape.Output = os.Stdout
		} else {
			ouf, err := os.Create(runOutput)
			if err != nil {
				log.Fatalf("%v: %v", runOutput, err)
			}
			defer ouf.Close()
			emu.Tape.Output = ouf
		}

		err := emu.Run()
		if verbose {
			log.Printf("%v: %d ticks", path, emu.Ticks())
			log.Printf("%v", emu.Cpu)
		}
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
	},
}

func init() {
	runCmd.Flags().IntVarP(&runMemory, "memory", "m", 0, "Memory size in bytes (default 4096)")
	runCmd.Flags().Int32VarP(&runBase, "base", "b", 0, "Load address of the image")
	runCmd.Flags().IntVar(&runMaxTicks, "max-ticks", 0, "Stop with an error after this many ticks (0 is unlimited)")
	runCmd.Flags().StringVarP(&runInput, "input", "i", "-", "Console input")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "-", "Console output")
	runCmd.Flags().StringVar(&runDepot, "depot", "", "Depot directory to load the named image from")
	rootCmd.AddCommand(runCmd)
}
