package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/seedling-app/seedling/pkg/garden"

	"github.com/spf13/cobra"
)

var companionPlantFlag int64

var companionsCmd = &cobra.Command{
	Use:   "companions",
	Short: "Manage companion plantings",
	Long:  `Record which plants grow well together, and why.`,
}

var addCompanionCmd = &cobra.Command{
	Use:   "add [plant-id] [companion-plant-id]",
	Short: "Record a companion planting",
	Long:  `Record that one plant benefits another, with an optional note about the benefits.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		plantID, err := parsePlantID(args[0])
		if err != nil {
			return err
		}
		companionID, err := parsePlantID(args[1])
		if err != nil {
			return err
		}

		benefits, _ := cmd.Flags().GetString("benefits")

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		companion, err := garden.AddCompanion(cmd.Context(), dbConn, plantID, companionID, benefits)
		if errors.Is(err, garden.ErrPlantNotFound) {
			return errors.New("both plants must exist")
		}
		if err != nil {
			return fmt.Errorf("failed to add companion planting: %w", err)
		}

		fmt.Printf("Companion planting %d recorded: plant %d helps plant %d.\n", companion.ID, companion.CompanionPlantID, companion.PlantID)
		return nil
	},
}

var listCompanionsCmd = &cobra.Command{
	Use:   "list",
	Short: "List a plant's companion plantings",
	Long:  `List companion plantings involving a plant, in either direction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		companions, err := garden.ListCompanionsForPlant(cmd.Context(), dbConn, companionPlantFlag)
		if err != nil {
			return fmt.Errorf("failed to list companion plantings: %w", err)
		}

		if len(companions) == 0 {
			fmt.Println("No companion plantings found.")
			return nil
		}

		fmt.Printf("Companion Plantings (%d):\n", len(companions))
		for _, companion := range companions {
			line := fmt.Sprintf("  [%d] plant %d helps plant %d", companion.ID, companion.CompanionPlantID, companion.PlantID)
			if companion.Benefits != "" {
				line += fmt.Sprintf(" - %s", companion.Benefits)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var removeCompanionCmd = &cobra.Command{
	Use:   "remove [companion-id]",
	Short: "Remove a companion planting",
	Long:  `Remove a companion planting record. The plants themselves are untouched.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		companionID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid companion planting ID: %s", args[0])
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		err = garden.DeleteCompanion(cmd.Context(), dbConn, companionID)
		if errors.Is(err, garden.ErrCompanionNotFound) {
			return fmt.Errorf("companion planting not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to remove companion planting: %w", err)
		}

		fmt.Printf("Companion planting %d removed.\n", companionID)
		return nil
	},
}

func initCompanionsCmd() {
	addCompanionCmd.Flags().String("benefits", "", "What the companion does for the plant")

	listCompanionsCmd.Flags().Int64Var(&companionPlantFlag, "plant", 0, "Plant ID (required)")
	listCompanionsCmd.MarkFlagRequired("plant")

	companionsCmd.AddCommand(
		addCompanionCmd,
		listCompanionsCmd,
		removeCompanionCmd,
	)
}
