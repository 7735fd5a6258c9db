package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/seedling-app/seedling/pkg/garden"

	"github.com/spf13/cobra"
)

var (
	statusFlag       string
	sowStartFlag     int
	sowEndFlag       int
	harvestStartFlag int
	harvestEndFlag   int
)

var plantsCmd = &cobra.Command{
	Use:   "plants",
	Short: "Manage the plant catalog",
	Long:  `Create, list, update, archive, and delete plants.`,
}

func parsePlantID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid plant ID: %s", arg)
	}
	return id, nil
}

func periodFromFlags(start, end int) *garden.Period {
	if start == 0 && end == 0 {
		return nil
	}
	return &garden.Period{Start: start, End: end}
}

var createPlantCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a plant to the catalog",
	Long:  `Add a new plant with a name and optional botanical details.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return errors.New("plant name is required")
		}

		latinName, _ := cmd.Flags().GetString("latin")
		lifecycle, _ := cmd.Flags().GetString("lifecycle")
		frost, _ := cmd.Flags().GetString("frost")
		instructions, _ := cmd.Flags().GetString("instructions")

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		plant, err := garden.CreatePlant(cmd.Context(), dbConn, garden.Plant{
			Name:           name,
			LatinName:      latinName,
			Lifecycle:      lifecycle,
			SowingPeriod:   periodFromFlags(sowStartFlag, sowEndFlag),
			HarvestPeriod:  periodFromFlags(harvestStartFlag, harvestEndFlag),
			FrostTolerance: frost,
			Instructions:   instructions,
		})
		if err != nil {
			return fmt.Errorf("failed to create plant: %w", err)
		}

		printPlant(plant)
		return nil
	},
}

var getPlantCmd = &cobra.Command{
	Use:   "get [plant-id]",
	Short: "Get a plant by ID",
	Long:  `Retrieve a plant by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plantID, err := parsePlantID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		plant, err := garden.GetPlant(cmd.Context(), dbConn, plantID)
		if errors.Is(err, garden.ErrPlantNotFound) {
			return fmt.Errorf("plant not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get plant: %w", err)
		}

		printPlant(plant)
		return nil
	},
}

var listPlantsCmd = &cobra.Command{
	Use:   "list",
	Short: "List plants",
	Long:  `List plants in the catalog, optionally filtered by status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		plants, err := garden.ListPlants(cmd.Context(), dbConn, statusFlag)
		if err != nil {
			return fmt.Errorf("failed to list plants: %w", err)
		}

		if len(plants) == 0 {
			fmt.Println("No plants found.")
			return nil
		}

		fmt.Printf("Plants (%d):\n", len(plants))
		for _, plant := range plants {
			label := plant.Name
			if plant.LatinName != "" {
				label += fmt.Sprintf(" (%s)", plant.LatinName)
			}
			fmt.Printf("  [%d] %s - %s\n", plant.ID, label, plant.Status)
		}
		return nil
	},
}

var updatePlantCmd = &cobra.Command{
	Use:   "update [plant-id]",
	Short: "Update a plant",
	Long:  `Rewrite a plant's details. Omitted optional fields are cleared.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plantID, err := parsePlantID(args[0])
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return errors.New("plant name is required")
		}

		latinName, _ := cmd.Flags().GetString("latin")
		lifecycle, _ := cmd.Flags().GetString("lifecycle")
		frost, _ := cmd.Flags().GetString("frost")
		instructions, _ := cmd.Flags().GetString("instructions")

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		plant, err := garden.UpdatePlant(cmd.Context(), dbConn, plantID, garden.Plant{
			Name:           name,
			LatinName:      latinName,
			Lifecycle:      lifecycle,
			SowingPeriod:   periodFromFlags(sowStartFlag, sowEndFlag),
			HarvestPeriod:  periodFromFlags(harvestStartFlag, harvestEndFlag),
			FrostTolerance: frost,
			Instructions:   instructions,
		})
		if errors.Is(err, garden.ErrPlantNotFound) {
			return fmt.Errorf("plant not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to update plant: %w", err)
		}

		printPlant(plant)
		return nil
	},
}

var archivePlantCmd = &cobra.Command{
	Use:   "archive [plant-id]",
	Short: "Toggle a plant between active and archived",
	Long:  `Archive an active plant or restore an archived one. Archived plants keep all their data.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plantID, err := parsePlantID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		plant, err := garden.ToggleArchive(cmd.Context(), dbConn, plantID)
		if errors.Is(err, garden.ErrPlantNotFound) {
			return fmt.Errorf("plant not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to archive plant: %w", err)
		}

		fmt.Printf("Plant '%s' is now %s.\n", plant.Name, plant.Status)
		return nil
	},
}

var deletePlantCmd = &cobra.Command{
	Use:   "delete [plant-id]",
	Short: "Delete a plant and everything that references it",
	Long: `Permanently delete a plant together with its diary entries, photos and
companion plantings. Tasks targeting only this plant are deleted; shared
tasks drop the plant from their plant lists.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plantID, err := parsePlantID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := garden.DeletePlant(cmd.Context(), dbConn, newScheduler(dbConn), plantID); err != nil {
			return fmt.Errorf("failed to delete plant: %w", err)
		}

		fmt.Printf("Plant %d deleted.\n", plantID)
		return nil
	},
}

func initPlantsCmd() {
	for _, c := range []*cobra.Command{createPlantCmd, updatePlantCmd} {
		c.Flags().String("name", "", "Name of the plant (required)")
		c.Flags().String("latin", "", "Botanical (Latin) name")
		c.Flags().String("lifecycle", "", "Annual, Biennial or Perennial")
		c.Flags().String("frost", "", "Frost tolerance")
		c.Flags().String("instructions", "", "Growing instructions")
		c.Flags().IntVar(&sowStartFlag, "sow-start", 0, "First sowing month (1-12)")
		c.Flags().IntVar(&sowEndFlag, "sow-end", 0, "Last sowing month (1-12)")
		c.Flags().IntVar(&harvestStartFlag, "harvest-start", 0, "First harvest month (1-12)")
		c.Flags().IntVar(&harvestEndFlag, "harvest-end", 0, "Last harvest month (1-12)")
	}
	createPlantCmd.MarkFlagRequired("name")

	listPlantsCmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status: active or archived")

	plantsCmd.AddCommand(
		createPlantCmd,
		getPlantCmd,
		listPlantsCmd,
		updatePlantCmd,
		archivePlantCmd,
		deletePlantCmd,
	)
}
