package garden

// Record types for the five store collections. JSON tags reproduce the
// backup wire format field names; backups written by any version of the
// app import cleanly into any other.

// Plant statuses.
const (
	PlantStatusActive   = "active"
	PlantStatusArchived = "archived"
)

// CareStageTaskCompleted is reserved for diary entries produced by task
// completion. Entries carrying it keep their note in sync with the task
// description on task edits.
const CareStageTaskCompleted = "task_completed"

// CareStage is a diary entry category offered by the UI.
type CareStage struct {
	ID    string
	Label string
}

// CareStages lists the user-selectable diary categories.
var CareStages = []CareStage{
	{ID: "sowed", Label: "Sowed/Started Seeds"},
	{ID: "transplanted", Label: "Transplanted/Repotted"},
	{ID: "planted", Label: "Planted"},
	{ID: "watered", Label: "Watered"},
	{ID: "fertilized", Label: "Fertilized"},
	{ID: "pruned", Label: "Pruned/Trimmed"},
	{ID: "treated", Label: "Treated (pests/disease)"},
	{ID: "harvested", Label: "Harvested"},
	{ID: "seeds_collected", Label: "Seeds Collected"},
}

// Months holds short month names for calendars, indexed by month-1.
var Months = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Frost tolerance options.
const (
	FrostToleranceTender    = "Tender (no frost)"
	FrostToleranceSemiHardy = "Semi-hardy (light frost)"
	FrostToleranceHardy     = "Hardy (hard frost)"
)

// Plant lifecycle options.
const (
	LifecycleAnnual    = "Annual"
	LifecycleBiennial  = "Biennial"
	LifecyclePerennial = "Perennial"
)

// DateFormat is the calendar-date layout used throughout the store.
const DateFormat = "2006-01-02"

// TimeFormat is the time-of-day layout for task reminders.
const TimeFormat = "15:04"

// Period is an inclusive month range (1-12). Ranges may wrap the year
// boundary, e.g. Oct-Mar.
type Period struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether month falls inside the period.
func (p Period) Contains(month int) bool {
	if p.Start <= p.End {
		return month >= p.Start && month <= p.End
	}
	return month >= p.Start || month <= p.End
}

// Plant is a cataloged plant. It owns diary entries, photos, task
// memberships and companion edges by foreign key only.
type Plant struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	LatinName      string  `json:"latinName,omitempty"`
	Status         string  `json:"status"`
	Lifecycle      string  `json:"lifecycle,omitempty"`
	SowingPeriod   *Period `json:"sowingPeriod,omitempty"`
	HarvestPeriod  *Period `json:"harvestPeriod,omitempty"`
	FrostTolerance string  `json:"frostTolerance,omitempty"`
	Instructions   string  `json:"instructions,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

// DiaryEntry is a dated, plant-scoped log entry. TaskID links entries
// produced by task completion back to the task; zero means no link.
// Year is denormalized from Date and maintained only by the create/update
// paths in diary.go.
type DiaryEntry struct {
	ID        int64  `json:"id"`
	PlantID   int64  `json:"plantId"`
	Date      string `json:"date"`
	CareStage string `json:"careStage,omitempty"`
	Note      string `json:"note,omitempty"`
	Year      int    `json:"year"`
	TaskID    int64  `json:"taskId,omitempty"`
}

// Task is a schedulable to-do item targeting one or more plants.
//
// While Completed is 0, PlantIDs holds only plants that have not yet
// completed the task; a plant completing it moves from PlantIDs to
// CompletedPlantIDs. The two lists never intersect. When the last
// remaining plant completes the task it transitions directly to
// Completed = 1 with PlantIDs left as a historical trace.
type Task struct {
	ID                int64   `json:"id"`
	Description       string  `json:"description"`
	Date              string  `json:"date"`
	Time              string  `json:"time,omitempty"`
	PlantIDs          []int64 `json:"plantIds"`
	Completed         int     `json:"completed"`
	CompletedPlantIDs []int64 `json:"completedPlantIds"`
	CreatedAt         string  `json:"createdAt"`
}

// Photo belongs to exactly one plant and optionally to a diary entry.
// At most one photo per plant carries IsMainPhoto.
type Photo struct {
	ID           int64  `json:"id"`
	PlantID      int64  `json:"plantId"`
	DiaryEntryID int64  `json:"diaryEntryId,omitempty"`
	DataURL      string `json:"dataUrl"`
	CreatedAt    string `json:"createdAt"`
	IsMainPhoto  bool   `json:"isMainPhoto,omitempty"`
}

// CompanionPlanting is a directed edge: CompanionPlantID helps PlantID.
type CompanionPlanting struct {
	ID               int64  `json:"id"`
	PlantID          int64  `json:"plantId"`
	CompanionPlantID int64  `json:"companionPlantId"`
	Benefits         string `json:"benefits,omitempty"`
}
