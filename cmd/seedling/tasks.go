package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/seedling-app/seedling/pkg/garden"

	"github.com/spf13/cobra"
)

var (
	includeCompletedFlag bool
	taskPlantFlag        int64
	taskEntryFlag        int64
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage care tasks",
	Long:  `Create, list, complete, snooze, and delete care tasks.`,
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID: %s", arg)
	}
	return id, nil
}

func parsePlantIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid plant ID: %s", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var createTaskCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a care task",
	Long:  `Create a task for one or more plants, with a due date and an optional reminder time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		date, _ := cmd.Flags().GetString("date")
		timeOfDay, _ := cmd.Flags().GetString("time")
		plantsStr, _ := cmd.Flags().GetString("plants")

		plantIDs, err := parsePlantIDList(plantsStr)
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		task, err := garden.CreateTask(cmd.Context(), dbConn, newScheduler(dbConn), description, date, timeOfDay, plantIDs)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		printTask(task)
		return nil
	},
}

var getTaskCmd = &cobra.Command{
	Use:   "get [task-id]",
	Short: "Get a task by ID",
	Long:  `Retrieve a task by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		task, err := garden.GetTask(cmd.Context(), dbConn, taskID)
		if errors.Is(err, garden.ErrTaskNotFound) {
			return fmt.Errorf("task not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}

		printTask(task)
		return nil
	},
}

var listTasksCmd = &cobra.Command{
	Use:   "list",
	Short: "List care tasks",
	Long:  `List care tasks sorted by due date, nearest first. Completed tasks are hidden unless --all is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		tasks, err := garden.ListTasks(cmd.Context(), dbConn, includeCompletedFlag)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("Tasks (%d):\n", len(tasks))
		for _, task := range tasks {
			marker := " "
			if task.Completed == 1 {
				marker = "x"
			}
			line := fmt.Sprintf("  [%s] %d %s  %s", marker, task.ID, task.Date, task.Description)
			if task.Time != "" {
				line += fmt.Sprintf(" @ %s", task.Time)
			}
			fmt.Println(line)
			fmt.Printf("      pending plants: %s\n", formatIDList(task.PlantIDs))
		}
		return nil
	},
}

var completeTaskCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Complete a task",
	Long: `Complete a task, writing a dated diary entry for each plant it is
completed for. With --plant, only that plant's part of the task is
completed; other plants keep the task pending.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if taskPlantFlag != 0 {
			entry, err := garden.CompleteTaskForPlant(cmd.Context(), dbConn, newScheduler(dbConn), taskID, taskPlantFlag)
			if errors.Is(err, garden.ErrTaskNotFound) {
				return fmt.Errorf("task not found: %s", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to complete task: %w", err)
			}
			fmt.Printf("Task %d completed for plant %d.\n", taskID, taskPlantFlag)
			printDiaryEntry(entry)
			return nil
		}

		entries, err := garden.CompleteTask(cmd.Context(), dbConn, newScheduler(dbConn), taskID)
		if errors.Is(err, garden.ErrTaskNotFound) {
			return fmt.Errorf("task not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Printf("Task %d completed. %d diary entries written.\n", taskID, len(entries))
		return nil
	},
}

var uncompleteTaskCmd = &cobra.Command{
	Use:   "uncomplete [task-id]",
	Short: "Undo a plant's task completion",
	Long: `Reopen a task for a single plant, deleting the diary entry its
completion produced. References that no longer exist are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := garden.UncompleteTaskForPlant(cmd.Context(), dbConn, newScheduler(dbConn), taskID, taskEntryFlag, taskPlantFlag); err != nil {
			return fmt.Errorf("failed to uncomplete task: %w", err)
		}

		fmt.Printf("Task %d reopened for plant %d.\n", taskID, taskPlantFlag)
		return nil
	},
}

var snoozeTaskCmd = &cobra.Command{
	Use:   "snooze [task-id]",
	Short: "Push a task's due date to tomorrow",
	Long:  `Move a task's due date to tomorrow and reschedule its reminder.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		task, err := garden.SnoozeTask(cmd.Context(), dbConn, taskID)
		if errors.Is(err, garden.ErrTaskNotFound) {
			return fmt.Errorf("task not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to snooze task: %w", err)
		}

		fmt.Printf("Task %d snoozed to %s.\n", task.ID, task.Date)
		return nil
	},
}

var updateTaskCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Edit a task's description, due date, reminder time or plant list.
Editing the description also updates the diary entries written by this
task's completions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		var update garden.TaskUpdate
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			update.Description = &description
		}
		if cmd.Flags().Changed("date") {
			date, _ := cmd.Flags().GetString("date")
			update.Date = &date
		}
		if cmd.Flags().Changed("time") {
			timeOfDay, _ := cmd.Flags().GetString("time")
			update.Time = &timeOfDay
		}
		if cmd.Flags().Changed("plants") {
			plantsStr, _ := cmd.Flags().GetString("plants")
			plantIDs, err := parsePlantIDList(plantsStr)
			if err != nil {
				return err
			}
			update.PlantIDs = &plantIDs
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		task, err := garden.UpdateTask(cmd.Context(), dbConn, newScheduler(dbConn), taskID, update)
		if errors.Is(err, garden.ErrTaskNotFound) {
			return fmt.Errorf("task not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		printTask(task)
		return nil
	},
}

var deleteTaskCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Long:  `Delete a task and cancel its reminder. Diary entries written by its completions are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		err = garden.DeleteTask(cmd.Context(), dbConn, newScheduler(dbConn), taskID)
		if errors.Is(err, garden.ErrTaskNotFound) {
			return fmt.Errorf("task not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		fmt.Printf("Task %d deleted.\n", taskID)
		return nil
	},
}

func initTasksCmd() {
	for _, c := range []*cobra.Command{createTaskCmd, updateTaskCmd} {
		c.Flags().String("description", "", "What needs doing")
		c.Flags().String("date", "", "Due date, YYYY-MM-DD")
		c.Flags().String("time", "", "Reminder time of day, HH:MM")
		c.Flags().String("plants", "", "Comma-separated plant IDs")
	}
	createTaskCmd.MarkFlagRequired("description")
	createTaskCmd.MarkFlagRequired("date")
	createTaskCmd.MarkFlagRequired("plants")

	listTasksCmd.Flags().BoolVar(&includeCompletedFlag, "all", false, "Include completed tasks")

	completeTaskCmd.Flags().Int64Var(&taskPlantFlag, "plant", 0, "Complete on behalf of a single plant ID")

	uncompleteTaskCmd.Flags().Int64Var(&taskPlantFlag, "plant", 0, "Plant ID to reopen the task for (required)")
	uncompleteTaskCmd.Flags().Int64Var(&taskEntryFlag, "entry", 0, "Diary entry ID written by the completion (required)")
	uncompleteTaskCmd.MarkFlagRequired("plant")
	uncompleteTaskCmd.MarkFlagRequired("entry")

	tasksCmd.AddCommand(
		createTaskCmd,
		getTaskCmd,
		listTasksCmd,
		completeTaskCmd,
		uncompleteTaskCmd,
		snoozeTaskCmd,
		updateTaskCmd,
		deleteTaskCmd,
	)
}
