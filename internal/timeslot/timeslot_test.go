package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"1200", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				var fe *FormatError
				assert.ErrorAs(t, err, &fe)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(545))
	assert.Equal(t, "18:30", FormatClock(1110))
}

func TestOverlaps(t *testing.T) {
	// Back-to-back ranges do not overlap.
	assert.False(t, Overlaps(540, 600, 600, 660))
	assert.False(t, Overlaps(600, 660, 540, 600))

	// One minute of shared time does.
	assert.True(t, Overlaps(540, 601, 600, 660))
	assert.True(t, Overlaps(600, 660, 540, 601))

	// Containment.
	assert.True(t, Overlaps(540, 720, 570, 600))
	assert.True(t, Overlaps(570, 600, 540, 720))
}

func TestWorkShiftContains(t *testing.T) {
	shift := WorkShift{Start: "09:00", End: "18:00"}

	// Exact boundary match is inside.
	assert.True(t, shift.Contains(MustClock("09:00"), MustClock("18:00")))

	// Ending one minute past shift close is outside.
	assert.False(t, shift.Contains(MustClock("09:00"), MustClock("18:01")))
	assert.False(t, shift.Contains(MustClock("08:59"), MustClock("17:00")))

	assert.True(t, shift.Contains(MustClock("10:00"), MustClock("12:00")))
}

func TestWorkShiftValid(t *testing.T) {
	assert.True(t, WorkShift{Start: "09:00", End: "13:00"}.Valid())
	assert.False(t, WorkShift{Start: "13:00", End: "09:00"}.Valid())
	assert.False(t, WorkShift{Start: "13:00", End: "13:00"}.Valid())
	assert.False(t, WorkShift{Start: "bogus", End: "13:00"}.Valid())
}
