package tui

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/seedling-app/seedling/pkg/garden"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type model struct {
	plants []garden.Plant
	tasks  []garden.Task

	currentPlant plantDetailsMsg // Currently loaded plant details

	columnFocus int // 0 = plants, 1 = tasks, 2 = plant details
	width       int // Current terminal width (for layout)
	height      int // Current terminal height
	err         error

	db    *sql.DB
	sched garden.Scheduler

	dbFilename string

	quitting bool

	plantCursor int // Index of selected plant
	taskCursor  int // Index of selected task
}

// Initialize TUI model
func initModel(db *sql.DB, sched garden.Scheduler) model {
	// Fetch database file path with name
	_, file := getDbPragmaList(db)

	return model{
		plants: []garden.Plant{},
		tasks:  []garden.Task{},

		currentPlant: plantDetailsMsg{},

		columnFocus: 0,
		width:       0,
		height:      0,

		db:    db,
		sched: sched,

		dbFilename: filepath.Base(file),

		plantCursor: 0,
		taskCursor:  0,
	}
}

// Execute commands concurrently with no ordering guarantees during initialization
func (m model) Init() tea.Cmd {
	return tea.Batch(
		listPlants(m.db),
		listTasks(m.db),
	)
}

// Processes events like window resize, errors, loaded data, and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Save the new window size in the model for responsive layout
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case []garden.Plant:
		// When plants are loaded from the store, keep them in the model
		m.plants = msg
		if m.plantCursor >= len(m.plants) {
			m.plantCursor = 0
		}
		if len(m.plants) > 0 {
			return m, getPlantDetails(m.db, m.plants[m.plantCursor].ID)
		}
		m.currentPlant = plantDetailsMsg{}
		return m, nil

	case []garden.Task:
		// Store pending tasks sorted by due date
		m.tasks = msg
		if m.taskCursor >= len(m.tasks) {
			m.taskCursor = 0
		}
		return m, nil

	case plantDetailsMsg:
		m.currentPlant = msg
		return m, nil

	case taskChangedMsg:
		// A task was completed or snoozed. Completion also writes diary
		// entries, so refresh the plant detail pane as well.
		cmds := []tea.Cmd{listTasks(m.db)}
		if len(m.plants) > 0 {
			cmds = append(cmds, getPlantDetails(m.db, m.plants[m.plantCursor].ID))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "tab", "right":
		m.columnFocus = (m.columnFocus + 1) % 3
		return m, nil

	case "shift+tab", "left":
		m.columnFocus = (m.columnFocus + 2) % 3
		return m, nil

	case "up", "k":
		if m.columnFocus == 0 && m.plantCursor > 0 {
			m.plantCursor--
			return m, getPlantDetails(m.db, m.plants[m.plantCursor].ID)
		}
		if m.columnFocus == 1 && m.taskCursor > 0 {
			m.taskCursor--
		}
		return m, nil

	case "down", "j":
		if m.columnFocus == 0 && m.plantCursor < len(m.plants)-1 {
			m.plantCursor++
			return m, getPlantDetails(m.db, m.plants[m.plantCursor].ID)
		}
		if m.columnFocus == 1 && m.taskCursor < len(m.tasks)-1 {
			m.taskCursor++
		}
		return m, nil

	case "c", "enter":
		// Complete the selected task for all of its remaining plants
		if m.columnFocus == 1 && m.taskCursor < len(m.tasks) {
			return m, completeTask(m.db, m.sched, m.tasks[m.taskCursor].ID)
		}
		return m, nil

	case "s":
		// Snooze the selected task until tomorrow
		if m.columnFocus == 1 && m.taskCursor < len(m.tasks) {
			return m, snoozeTask(m.db, m.tasks[m.taskCursor].ID)
		}
		return m, nil

	case "r":
		return m, tea.Batch(listPlants(m.db), listTasks(m.db))
	}

	return m, nil
}

// plantNames resolves the plants a task is still waiting on into a short label
func (m model) plantNames(ids []int64) string {
	names := []string{}
	for _, id := range ids {
		for _, p := range m.plants {
			if p.ID == id {
				names = append(names, p.Name)
				break
			}
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return textRedStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\nPress q to quit.\n"
	}
	if m.width == 0 {
		return "Loading..."
	}

	titleBar := titleStyle.Width(m.width).Render(fmt.Sprintf("Seedling - %s", m.dbFilename))

	leftWidth, middleWidth, rightWidth := m.dynamicColumnWidth()

	// Left panel: plant catalog
	var leftBuilder strings.Builder
	leftBuilder.WriteString(subtitleStyle.Render("Plants") + "\n\n")
	if len(m.plants) == 0 {
		leftBuilder.WriteString(textStyle.Render("No plants yet."))
	}
	for i, plant := range m.plants {
		line := generateLinePointer(i == m.plantCursor && m.columnFocus == 0, 2) + plant.Name
		if i == m.plantCursor {
			leftBuilder.WriteString(selectedStyle.Render(line) + "\n")
		} else {
			leftBuilder.WriteString(textStyle.Render(line) + "\n")
		}
	}

	// Middle panel: pending tasks, nearest due date first
	var middleBuilder strings.Builder
	middleBuilder.WriteString(subtitleStyle.Render("Tasks") + "\n\n")
	if len(m.tasks) == 0 {
		middleBuilder.WriteString(textStyle.Render("Nothing to do. Garden is happy."))
	}
	for i, task := range m.tasks {
		label := fmt.Sprintf("%s  %s", task.Date, task.Description)
		line := generateLinePointer(i == m.taskCursor && m.columnFocus == 1, 2) + label
		if i == m.taskCursor && m.columnFocus == 1 {
			middleBuilder.WriteString(selectedStyle.Render(line) + "\n")
		} else {
			middleBuilder.WriteString(dueStyle.Render(line) + "\n")
		}
		middleBuilder.WriteString("  " + dimStyle.Render(m.plantNames(task.PlantIDs)) + "\n")
	}

	// Right panel: selected plant with its diary tail
	var rightBuilder strings.Builder
	if m.currentPlant.plant.ID != 0 {
		plant := m.currentPlant.plant
		rightBuilder.WriteString(labelStyle.Render("Plant: ") + textStyle.Render(plant.Name) + "\n")
		if plant.LatinName != "" {
			rightBuilder.WriteString(labelStyle.Render("Latin: ") + noteStyle.Render(plant.LatinName) + "\n")
		}
		if plant.Lifecycle != "" {
			rightBuilder.WriteString(labelStyle.Render("Lifecycle: ") + textStyle.Render(plant.Lifecycle) + "\n")
		}
		rightBuilder.WriteString("\n" + subtitleStyle.Render("Diary") + "\n")
		if len(m.currentPlant.entries) == 0 {
			rightBuilder.WriteString(dimStyle.Render("No diary entries yet.") + "\n")
		}
		shown := 0
		for _, entry := range m.currentPlant.entries {
			if shown >= 10 {
				break
			}
			rightBuilder.WriteString(dueStyle.Render(entry.Date) + " " + noteStyle.Render(entry.CareStage))
			if entry.Note != "" {
				rightBuilder.WriteString(" " + textStyle.Render(entry.Note))
			}
			rightBuilder.WriteString("\n")
			shown++
		}
	} else {
		rightBuilder.WriteString("Select a plant to view details.")
	}

	panelHeightPadding := 3

	// Left panel: border on the right side
	leftPanelStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2)
	leftPanel := leftPanelStyle.Width(leftWidth).Height(m.height - panelHeightPadding).
		Render(leftBuilder.String())

	// Middle panel: border on the right side only
	middlePanelStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2)
	middlePanel := middlePanelStyle.Width(middleWidth).Height(m.height - panelHeightPadding).
		Render(middleBuilder.String())

	// Right panel: no border (open content area)
	rightPanelStyle := lipgloss.NewStyle().Padding(0, 2)
	rightPanel := rightPanelStyle.Width(rightWidth).Height(m.height - panelHeightPadding).
		Render(rightBuilder.String())

	// Join the three panels horizontally (top aligned)
	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, middlePanel, rightPanel)

	// Footer with usage instructions
	footerText := "\n↑/↓ to navigate • Tab to switch panes • c to complete • s to snooze • r to refresh • q to quit"
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n\n" + columns + footerBar
}

// Create and start the Bubble Tea TUI
func ShowTUI(db *sql.DB, sched garden.Scheduler) error {
	p := tea.NewProgram(initModel(db, sched), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
