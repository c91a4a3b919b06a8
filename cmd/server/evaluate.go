package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"agri-advisor/internal/domain/entity"
	"agri-advisor/internal/usecase"
)

func newEvaluateCmd() *cobra.Command {
	var reading entity.SoilReading
	var temperature float64

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Print the soil advisories for one reading",
		Example: `  agri-advisor evaluate --ph 5.0 --moisture 25 --temperature 5
  agri-advisor evaluate --ph 6.5 --moisture 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("temperature") {
				reading.Temperature = &temperature
			}
			for _, advisory := range usecase.Evaluate(reading) {
				fmt.Fprintln(cmd.OutOrStdout(), advisory)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&reading.PH, "ph", 0, "soil pH")
	cmd.Flags().Float64Var(&reading.Moisture, "moisture", 0, "soil moisture in percent")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "air temperature in °C (omit if not measured)")
	_ = cmd.MarkFlagRequired("ph")
	_ = cmd.MarkFlagRequired("moisture")
	return cmd
}
