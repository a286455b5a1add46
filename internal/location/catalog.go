package location

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/planbiir/gloc/internal/profile"
)

const importedDescription = "Imported from Strava."

// LastSample is the ride state the app shows for a catalog entry.
type LastSample struct {
	SeqNo            int    `json:"seqno"`
	Location         Record `json:"location"`
	ElapsedTime      int64  `json:"elapsedTime"`
	Distance         Number `json:"distance"`
	TotalDistance    Number `json:"totalDistance"`
	AvgSpeed         Number `json:"avgSpeed"`
	MaxSpeed         Number `json:"maxSpeed"`
	Altitude         Number `json:"altitude"`
	AvgAltitude      Number `json:"avgAltitude"`
	VerticalDistance Number `json:"verticalDistance"`
	Climb            Number `json:"climb"`
	Descent          Number `json:"descent"`
	Grade            Number `json:"grade"`
}

// Entry is one ride in the catalog.
type Entry struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Time        int64      `json:"time"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	LastSample  LastSample `json:"lastSample"`
}

// Catalog is the index of imported rides.
type Catalog struct {
	Rides        []Entry `json:"rides"`
	WeeklyStats  []any   `json:"weeklyStats"`
	MonthlyStats []any   `json:"monthlyStats"`
	AnnualStats  []any   `json:"annualStats"`
}

// NewEntry builds a catalog entry for an imported ride.
func NewEntry(id, title string, start time.Time, sum profile.Summary) Entry {
	return Entry{
		ID:          id,
		Title:       title,
		Time:        start.UnixMilli(),
		Description: importedDescription,
		Tags:        []string{},
		LastSample: LastSample{
			SeqNo:            sum.SeqNo,
			Location:         FromSample(sum.Last),
			ElapsedTime:      sum.ElapsedTime,
			Distance:         Number(sum.Distance),
			TotalDistance:    Number(sum.TotalDistance),
			AvgSpeed:         Number(sum.AvgSpeed),
			MaxSpeed:         Number(sum.MaxSpeed),
			Altitude:         Number(sum.Altitude),
			AvgAltitude:      Number(sum.AvgAltitude),
			VerticalDistance: Number(sum.VerticalDistance),
			Climb:            Number(sum.Climb),
			Descent:          Number(sum.Descent),
			Grade:            Number(sum.Grade),
		},
	}
}

// BuildCatalog orders entries by start time.
func BuildCatalog(entries []Entry) Catalog {
	rides := append([]Entry{}, entries...)
	sort.SliceStable(rides, func(i, j int) bool { return rides[i].Time < rides[j].Time })
	return Catalog{
		Rides:        rides,
		WeeklyStats:  []any{},
		MonthlyStats: []any{},
		AnnualStats:  []any{},
	}
}

// WriteCatalog stores the catalog as indented JSON at path.
func WriteCatalog(path string, cat Catalog) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
