package catalog

import "github.com/aristath/dayplanner/internal/scheduler"

// SampleStartHour is when the sample day begins.
const SampleStartHour = 8

// Sample returns a day in Seoul: a fixed 8 o'clock wake-up, a K-pop class
// at 13:00, and sightseeing that hangs off breakfast and the walk to the
// library.
func Sample() *File {
	start := SampleStartHour
	return &File{
		StartHour: &start,
		Tasks: []scheduler.TaskSpec{
			{ID: 1, Description: "Wake up at 8 am", Duration: 30, Preference: 8, Start: "08:00"},
			{ID: 2, Description: "Have breakfast", Duration: 60, DependsOn: []int{1}, Preference: 6},
			{ID: 3, Description: "Walk to Sookmyung's library", Duration: 30, DependsOn: []int{1}, Preference: 10},
			{ID: 4, Description: "Work on the class's prework", Duration: 90, DependsOn: []int{1}, Preference: 8},
			{ID: 5, Description: "Visit Gyeongbokgung Palace", Duration: 30, DependsOn: []int{2}, Preference: 6},
			{ID: 6, Description: "Ride the bus to the palace's location", Duration: 30, DependsOn: []int{2}, Preference: 3},
			{ID: 7, Description: "Explore Insadong street art", Duration: 60, DependsOn: []int{2}, Preference: 7},
			{ID: 8, Description: "Try a local tea ceremony", Duration: 90, DependsOn: []int{3}, Preference: 10},
			{ID: 9, Description: "Read a book at a cozy cafe", Duration: 30, DependsOn: []int{3}, Preference: 10},
			{ID: 10, Description: "Attend a K-pop dance class", Duration: 10, DependsOn: []int{3}, Preference: 10, Start: "13:00"},
		},
	}
}
