package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/seedling-app/seedling/pkg/garden"

	"github.com/spf13/cobra"
)

var (
	diaryPlantFlag int64
	diaryYearFlag  int
)

var diaryCmd = &cobra.Command{
	Use:   "diary",
	Short: "Manage the care diary",
	Long:  `Add, list, search, update, and delete dated care-diary entries.`,
}

func parseEntryID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid diary entry ID: %s", arg)
	}
	return id, nil
}

var addDiaryEntryCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a diary entry for a plant",
	Long:  `Add a dated diary entry with an optional care stage and note.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		careStage, _ := cmd.Flags().GetString("stage")
		note, _ := cmd.Flags().GetString("note")

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		entry, err := garden.CreateDiaryEntry(cmd.Context(), dbConn, diaryPlantFlag, date, careStage, note, 0)
		if errors.Is(err, garden.ErrPlantNotFound) {
			return fmt.Errorf("plant not found: %d", diaryPlantFlag)
		}
		if err != nil {
			return fmt.Errorf("failed to create diary entry: %w", err)
		}

		printDiaryEntry(entry)
		return nil
	},
}

var listDiaryCmd = &cobra.Command{
	Use:   "list",
	Short: "List diary entries for a plant",
	Long:  `List a plant's diary entries, newest first, optionally restricted to a year.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		entries, err := garden.ListDiaryEntries(cmd.Context(), dbConn, diaryPlantFlag, diaryYearFlag)
		if err != nil {
			return fmt.Errorf("failed to list diary entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No diary entries found.")
			return nil
		}

		fmt.Printf("Diary Entries (%d):\n", len(entries))
		for _, entry := range entries {
			line := fmt.Sprintf("  [%d] %s", entry.ID, entry.Date)
			if entry.CareStage != "" {
				line += fmt.Sprintf(" %s", entry.CareStage)
			}
			if entry.Note != "" {
				line += fmt.Sprintf(" - %s", entry.Note)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var diaryYearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List years with diary activity for a plant",
	Long:  `List the distinct years a plant has diary entries in, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		years, err := garden.ListDiaryYears(cmd.Context(), dbConn, diaryPlantFlag)
		if err != nil {
			return fmt.Errorf("failed to list diary years: %w", err)
		}

		if len(years) == 0 {
			fmt.Println("No diary entries found.")
			return nil
		}

		for _, year := range years {
			fmt.Println(year)
		}
		return nil
	},
}

var searchDiaryCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search diary entries",
	Long:  `Search all diary entries by note or care stage text, newest first.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		entries, err := garden.SearchDiary(cmd.Context(), dbConn, args[0])
		if err != nil {
			return fmt.Errorf("failed to search diary: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No matching diary entries.")
			return nil
		}

		fmt.Printf("Matches (%d):\n", len(entries))
		for _, entry := range entries {
			fmt.Printf("  [%d] plant %d %s %s - %s\n", entry.ID, entry.PlantID, entry.Date, entry.CareStage, entry.Note)
		}
		return nil
	},
}

var updateDiaryEntryCmd = &cobra.Command{
	Use:   "update [entry-id]",
	Short: "Update a diary entry",
	Long:  `Rewrite a diary entry's date, care stage and note. The entry's year follows its date.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, err := parseEntryID(args[0])
		if err != nil {
			return err
		}

		date, _ := cmd.Flags().GetString("date")
		careStage, _ := cmd.Flags().GetString("stage")
		note, _ := cmd.Flags().GetString("note")

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		entry, err := garden.UpdateDiaryEntry(cmd.Context(), dbConn, entryID, date, careStage, note)
		if errors.Is(err, garden.ErrEntryNotFound) {
			return fmt.Errorf("diary entry not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to update diary entry: %w", err)
		}

		printDiaryEntry(entry)
		return nil
	},
}

var deleteDiaryEntryCmd = &cobra.Command{
	Use:   "delete [entry-id]",
	Short: "Delete a diary entry",
	Long:  `Delete a diary entry. Photos attached to it stay with the plant, detached from the entry.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, err := parseEntryID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		err = garden.DeleteDiaryEntry(cmd.Context(), dbConn, entryID)
		if errors.Is(err, garden.ErrEntryNotFound) {
			return fmt.Errorf("diary entry not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to delete diary entry: %w", err)
		}

		fmt.Printf("Diary entry %d deleted.\n", entryID)
		return nil
	},
}

func initDiaryCmd() {
	diaryCmd.PersistentFlags().Int64Var(&diaryPlantFlag, "plant", 0, "Plant ID (required for most commands)")

	for _, c := range []*cobra.Command{addDiaryEntryCmd, updateDiaryEntryCmd} {
		c.Flags().String("date", "", "Entry date, YYYY-MM-DD (required)")
		c.Flags().String("stage", "", "Care stage, e.g. watered, pruned")
		c.Flags().String("note", "", "Free-form note")
		c.MarkFlagRequired("date")
	}
	addDiaryEntryCmd.MarkFlagRequired("plant")

	listDiaryCmd.Flags().IntVar(&diaryYearFlag, "year", 0, "Restrict to a single year")
	listDiaryCmd.MarkFlagRequired("plant")
	diaryYearsCmd.MarkFlagRequired("plant")

	diaryCmd.AddCommand(
		addDiaryEntryCmd,
		listDiaryCmd,
		diaryYearsCmd,
		searchDiaryCmd,
		updateDiaryEntryCmd,
		deleteDiaryEntryCmd,
	)
}
