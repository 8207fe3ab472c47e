package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		th    Thresholds
		want  Band
	}{
		{"below low threshold", 0.05, Thresholds{0.1, 5.0, 7.0}, None},
		{"between low and normal", 3.5, Thresholds{0.1, 5.0, 7.0}, Low},
		{"between normal and high", 3.5, Thresholds{0.1, 2.0, 7.0}, Normal},
		{"above high", 10.5, Thresholds{0.1, 2.0, 10.0}, High},
		{"zero hours", 0, Thresholds{0.1, 5.0, 7.0}, None},
		{"exactly low", 0.1, Thresholds{0.1, 5.0, 7.0}, Low},
		{"exactly normal", 5.0, Thresholds{0.1, 5.0, 7.0}, Normal},
		{"exactly high", 7.0, Thresholds{0.1, 5.0, 7.0}, High},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.hours, tt.th))
		})
	}
}
