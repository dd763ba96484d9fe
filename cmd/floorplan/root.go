package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorustyt/floorplan/navbuild"
)

var rootCmd = &cobra.Command{
	Use:           "floorplan",
	Short:         "Generate floor-plan navmeshes from scene descriptions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var cellSizeCmd = &cobra.Command{
	Use:   "cellsize [area]",
	Short: "Print the automatic cell size for a footprint area",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		area, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("parse area: %w", err)
		}
		if area < 0 {
			return fmt.Errorf("area must be non-negative, got %v", area)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", navbuild.CellSize(area))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cellSizeCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
