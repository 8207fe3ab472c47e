package load

// Band is the qualitative classification of a day's workload.
type Band string

const (
	None   Band = "none"
	Low    Band = "low"
	Normal Band = "normal"
	High   Band = "high"
)

// Thresholds are the lower bounds of the low, normal and high bands.
// They are expected to be ascending; nothing checks it.
type Thresholds struct {
	LowMin    float64
	NormalMin float64
	HighMin   float64
}

// Classify maps the total hours of a day onto a band. A value equal to a threshold belongs to the higher band.
func Classify(hours float64, th Thresholds) Band {
	switch {
	case hours >= th.HighMin:
		return High
	case hours >= th.NormalMin:
		return Normal
	case hours >= th.LowMin:
		return Low
	default:
		return None
	}
}
