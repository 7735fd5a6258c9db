package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/seedling-app/seedling/pkg/backup"
	"github.com/seedling-app/seedling/pkg/notify"

	"github.com/spf13/cobra"
)

var backupOutFlag string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export and import backups",
	Long:  `Export the whole store to a JSON backup file, restore from one, and manage the backup reminder.`,
}

var exportBackupCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the store to a backup file",
	Long: `Write every plant, diary entry, photo, task, companion planting and
pending reminder to a single JSON backup file. The export records
itself as the last backup for reminder purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		scheduler := notify.NewScheduler(dbConn, notify.StderrNotifier)
		defer scheduler.Close()

		doc, err := backup.Export(cmd.Context(), dbConn, scheduler)
		if err != nil {
			return fmt.Errorf("failed to export backup: %w", err)
		}

		encoded, err := backup.Encode(doc)
		if err != nil {
			return fmt.Errorf("failed to encode backup: %w", err)
		}

		outPath := backupOutFlag
		if outPath == "" {
			outPath = backup.Filename(time.Now())
		}
		if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
			return fmt.Errorf("failed to write backup file: %w", err)
		}

		fmt.Printf("Backup written to %s (%d plants, %d diary entries, %d tasks).\n",
			outPath, len(doc.Data.Plants), len(doc.Data.DiaryEntries), len(doc.Data.Tasks))
		return nil
	},
}

var importBackupCmd = &cobra.Command{
	Use:   "import [backup-file]",
	Short: "Restore the store from a backup file",
	Long: `Validate a backup file and replace the entire store with its contents.
All current data is discarded. An invalid file leaves the store untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read backup file: %w", err)
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		scheduler := notify.NewScheduler(dbConn, notify.StderrNotifier)
		defer scheduler.Close()

		err = backup.Import(cmd.Context(), dbConn, scheduler, raw)
		var validationErr *backup.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("backup file rejected: %s", validationErr.Reason)
		}
		if err != nil {
			return fmt.Errorf("failed to import backup: %w", err)
		}

		fmt.Printf("Store restored from %s.\n", args[0])
		return nil
	},
}

var backupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backup reminder status",
	Long:  `Show when the store was last backed up and whether a backup is due.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		last, ok, err := backup.LastBackupDate(cmd.Context(), dbConn)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Never backed up.")
		} else {
			fmt.Printf("Last backup: %s\n", last.Format("2006-01-02"))
		}

		due, err := backup.ShouldShowBackupReminder(cmd.Context(), dbConn, time.Now())
		if err != nil {
			return err
		}
		if due {
			fmt.Println("A backup is due. Run 'seedling backup export'.")
		}
		return nil
	},
}

var backupDismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Dismiss the backup reminder for today",
	Long:  `Silence the backup reminder until tomorrow.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := backup.DismissReminder(cmd.Context(), dbConn, time.Now()); err != nil {
			return err
		}
		fmt.Println("Backup reminder dismissed for today.")
		return nil
	},
}

func initBackupCmd() {
	exportBackupCmd.Flags().StringVar(&backupOutFlag, "out", "", "Output file (defaults to seedling-backup-YYYY-MM-DD.json)")

	backupCmd.AddCommand(
		exportBackupCmd,
		importBackupCmd,
		backupStatusCmd,
		backupDismissCmd,
	)
}
