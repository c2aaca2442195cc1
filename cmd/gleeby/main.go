// Command gleeby drives the macro-assembler to build small demo
// cartridge images, the way cmd/minzc drives the compiler pipeline.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/8bitcraft/gleeby/pkg/rom"
	"github.com/spf13/cobra"
)

const (
	romOffsetFloor = 0x0800
	ramOffsetFloor = 0xC000
)

var (
	outputFile string
	verbose    bool
	romOffset  uint16
	ramOffset  uint16
)

var rootCmd = &cobra.Command{
	Use:   "gleeby",
	Short: "gleeby builds Game Boy / Game Boy Color cartridge images from the embedded macro-assembler",
}

var buildCmd = &cobra.Command{
	Use:   "build <demo>",
	Short: "assemble a named demo program into a cartridge image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		d, ok := demos[name]
		if !ok {
			names := make([]string, 0, len(demos))
			for n := range demos {
				names = append(names, n)
			}
			sort.Strings(names)
			return fmt.Errorf("unknown demo %q, available: %s", name, strings.Join(names, ", "))
		}

		if romOffset < romOffsetFloor {
			return fmt.Errorf("--rom-offset %#04x is below the %#04x floor", romOffset, romOffsetFloor)
		}
		if ramOffset < ramOffsetFloor {
			return fmt.Errorf("--ram-offset %#04x is below the %#04x floor", ramOffset, ramOffsetFloor)
		}

		g, err := rom.New(romOffset, ramOffset)
		if err != nil {
			return err
		}
		if verbose {
			g.Verbose = func(s string) { fmt.Fprintln(os.Stderr, s) }
		}

		if err := d(g); err != nil {
			return fmt.Errorf("building demo %q: %w", name, err)
		}

		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := g.Save(f); err != nil {
			return fmt.Errorf("saving %s: %w", outputFile, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", outputFile)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&outputFile, "output", "o", "out.gb", "output cartridge path")
	buildCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the code size and each stored constant while serializing")
	buildCmd.Flags().Uint16Var(&romOffset, "rom-offset", romOffsetFloor, "base offset of the ROM constant arena")
	buildCmd.Flags().Uint16Var(&ramOffset, "ram-offset", ramOffsetFloor, "base offset of the RAM variable arena")
	rootCmd.AddCommand(buildCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
