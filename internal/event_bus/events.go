package event_bus

const SettingsUpdatedType EventType = "settings.updated"

// SettingsUpdated carries the reloaded workload settings.
type SettingsUpdated struct {
	// NonWorkingWeekdays holds ISO weekday ordinals, 1 for Monday through 7 for Sunday.
	NonWorkingWeekdays []int
	LowMin             float64
	NormalMin          float64
	HighMin            float64
}
