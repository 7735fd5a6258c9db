package garden

import (
	"context"
	"database/sql"
)

// MonthCalendar maps month numbers (1-12) to the active plants whose
// period covers that month.
type MonthCalendar map[int][]Plant

// SowingCalendar builds the month-by-month sowing view over active
// plants with a sowing period.
func SowingCalendar(ctx context.Context, db *sql.DB) (MonthCalendar, error) {
	return buildCalendar(ctx, db, func(p Plant) *Period { return p.SowingPeriod })
}

// HarvestCalendar builds the month-by-month harvest view over active
// plants with a harvest period.
func HarvestCalendar(ctx context.Context, db *sql.DB) (MonthCalendar, error) {
	return buildCalendar(ctx, db, func(p Plant) *Period { return p.HarvestPeriod })
}

// PlantsForMonth returns the calendar's plants for a single month, nil
// when the month is out of range or empty.
func (c MonthCalendar) PlantsForMonth(month int) []Plant {
	if month < 1 || month > 12 {
		return nil
	}
	return c[month]
}

func buildCalendar(ctx context.Context, db *sql.DB, period func(Plant) *Period) (MonthCalendar, error) {
	plants, err := ListPlants(ctx, db, PlantStatusActive)
	if err != nil {
		return nil, err
	}

	calendar := make(MonthCalendar)
	for month := 1; month <= 12; month++ {
		for _, plant := range plants {
			p := period(plant)
			if p != nil && p.Contains(month) {
				calendar[month] = append(calendar[month], plant)
			}
		}
	}

	return calendar, nil
}
