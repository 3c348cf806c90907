package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ezrec/sacrisc/emulator"
	"github.com/ezrec/sacrisc/io"
)

var storeDepot string

// openDepot loads the depot directory.
func openDepot() (depot *io.Depot) {
	depot = &io.Depot{}
	err := depot.Unmarshal(os.DirFS(storeDepot))
	if err != nil {
		log.Fatalf("%v: %v", storeDepot, err)
	}
	return
}

// storeCmd represents the store command
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the image depot",
	Long: `Store keeps assembled byte-code images in a depot directory, as
NAME.sac files.
`,
}

var storePutCmd = &cobra.Command{
	Use:   "put name file",
	Short: "Store a source file or image in the depot",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name, path := args[0], args[1]

		emu := emulator.NewEmulator(0)
		emu.Verbose = verbose

		image, _, err := loadImage(emu, path)
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}

		depot := openDepot()
		err = depot.Put(name, image)
		if err != nil {
			log.Fatalf("%v", err)
		}

		err = depot.Marshal(io.DirFS(storeDepot))
		if err != nil {
			log.Fatalf("%v: %v", storeDepot, err)
		}
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get name file",
	Short: "Copy an image out of the depot",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name, path := args[0], args[1]

		depot := openDepot()
		image, err := depot.Get(name)
		if err != nil {
			log.Fatalf("%v", err)
		}

		err = os.WriteFile(path, image, 0o644)
		if err != nil {
			log.Fatalf("%v", errors.Wrapf(err, "store get %v", name))
		}
	},
}

var storeListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the images in the depot",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		depot := openDepot()
		for _, name := range depot.Names() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %6d\n", name, len(depot.Images[name]))
		}
	},
}

func init() {
	storeCmd.PersistentFlags().StringVar(&storeDepot, "depot", ".", "Depot directory")
	storeCmd.AddCommand(storePutCmd, storeGetCmd, storeListCmd)
	rootCmd.AddCommand(storeCmd)
}
