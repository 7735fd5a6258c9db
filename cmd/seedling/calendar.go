package main

import (
	"fmt"
	"strings"

	"github.com/seedling-app/seedling/pkg/garden"

	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar [sowing|harvest]",
	Short: "Show the sowing or harvest calendar",
	Long:  `Show which active plants to sow or harvest in each month of the year.`,
	Args:  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{
		"sowing",
		"harvest",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		var cal garden.MonthCalendar
		switch args[0] {
		case "sowing":
			cal, err = garden.SowingCalendar(cmd.Context(), dbConn)
		case "harvest":
			cal, err = garden.HarvestCalendar(cmd.Context(), dbConn)
		}
		if err != nil {
			return fmt.Errorf("failed to build calendar: %w", err)
		}

		for month := 1; month <= 12; month++ {
			plants := cal[month]
			if len(plants) == 0 {
				fmt.Printf("%s: -\n", garden.Months[month-1])
				continue
			}
			names := make([]string, len(plants))
			for i, plant := range plants {
				names[i] = plant.Name
			}
			fmt.Printf("%s: %s\n", garden.Months[month-1], strings.Join(names, ", "))
		}
		return nil
	},
}
