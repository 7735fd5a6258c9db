package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/seedling-app/seedling/pkg/garden"

	"github.com/spf13/cobra"
)

var (
	photoPlantFlag int64
	photoEntryFlag int64
	photoMainFlag  bool
)

var photosCmd = &cobra.Command{
	Use:   "photos",
	Short: "Manage plant photos",
	Long:  `Attach, list, and delete photos, and pick each plant's main photo.`,
}

func parsePhotoID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid photo ID: %s", arg)
	}
	return id, nil
}

var addPhotoCmd = &cobra.Command{
	Use:   "add [image-file]",
	Short: "Attach a photo to a plant",
	Long: `Read an image file and attach it to a plant as a data URL, optionally
linked to a diary entry. With --main it becomes the plant's main photo,
replacing any previous one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image file: %w", err)
		}
		dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		photo, err := garden.AddPhoto(cmd.Context(), dbConn, photoPlantFlag, photoEntryFlag, dataURL, photoMainFlag)
		if errors.Is(err, garden.ErrPlantNotFound) {
			return fmt.Errorf("plant not found: %d", photoPlantFlag)
		}
		if err != nil {
			return fmt.Errorf("failed to add photo: %w", err)
		}

		fmt.Printf("Photo %d attached to plant %d (main: %t).\n", photo.ID, photo.PlantID, photo.IsMainPhoto)
		return nil
	},
}

var listPhotosCmd = &cobra.Command{
	Use:   "list",
	Short: "List a plant's photos",
	Long:  `List the photos attached to a plant, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		photos, err := garden.ListPhotos(cmd.Context(), dbConn, photoPlantFlag)
		if err != nil {
			return fmt.Errorf("failed to list photos: %w", err)
		}

		if len(photos) == 0 {
			fmt.Println("No photos found.")
			return nil
		}

		fmt.Printf("Photos (%d):\n", len(photos))
		for _, photo := range photos {
			line := fmt.Sprintf("  [%d] %s (%d bytes)", photo.ID, photo.CreatedAt, len(photo.DataURL))
			if photo.IsMainPhoto {
				line += " [main]"
			}
			if photo.DiaryEntryID != 0 {
				line += fmt.Sprintf(" entry %d", photo.DiaryEntryID)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var setMainPhotoCmd = &cobra.Command{
	Use:   "set-main [photo-id]",
	Short: "Make a photo the plant's main photo",
	Long:  `Mark a photo as its plant's main photo. The previous main photo, if any, is demoted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		photoID, err := parsePhotoID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		photo, err := garden.SetMainPhoto(cmd.Context(), dbConn, photoID)
		if errors.Is(err, garden.ErrPhotoNotFound) {
			return fmt.Errorf("photo not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to set main photo: %w", err)
		}

		fmt.Printf("Photo %d is now the main photo for plant %d.\n", photo.ID, photo.PlantID)
		return nil
	},
}

var deletePhotoCmd = &cobra.Command{
	Use:   "delete [photo-id]",
	Short: "Delete a photo",
	Long:  `Delete a photo from the store.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		photoID, err := parsePhotoID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		err = garden.DeletePhoto(cmd.Context(), dbConn, photoID)
		if errors.Is(err, garden.ErrPhotoNotFound) {
			return fmt.Errorf("photo not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to delete photo: %w", err)
		}

		fmt.Printf("Photo %d deleted.\n", photoID)
		return nil
	},
}

func initPhotosCmd() {
	photosCmd.PersistentFlags().Int64Var(&photoPlantFlag, "plant", 0, "Plant ID (required for most commands)")

	addPhotoCmd.Flags().Int64Var(&photoEntryFlag, "entry", 0, "Diary entry ID to link the photo to")
	addPhotoCmd.Flags().BoolVar(&photoMainFlag, "main", false, "Make this the plant's main photo")
	addPhotoCmd.MarkFlagRequired("plant")
	listPhotosCmd.MarkFlagRequired("plant")

	photosCmd.AddCommand(
		addPhotoCmd,
		listPhotosCmd,
		setMainPhotoCmd,
		deletePhotoCmd,
	)
}
