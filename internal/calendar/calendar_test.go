package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomslots/slotsync/internal/model"
)

func TestClassify(t *testing.T) {
	holidays := HolidaySet{"2025-12-25": true, "2025-12-06": true}

	tests := []struct {
		date string
		want model.DayType
	}{
		{"2025-12-08", model.DayWeekday},  // Monday
		{"2025-12-11", model.DayWeekday},  // Thursday
		{"2025-12-12", model.DayFriday},   // Friday
		{"2025-12-13", model.DaySaturday}, // Saturday
		{"2025-12-14", model.DaySunday},   // Sunday
		{"2025-12-25", model.DayHoliday},  // Thursday, on the holiday list
		{"2025-12-06", model.DayHoliday},  // Saturday, holiday still wins
		{"not-a-date", model.DayWeekday},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Classify(tc.date, holidays), tc.date)
	}
}

func TestEnumerateSlots(t *testing.T) {
	weekday := []string{"10:00"}
	weekend := []string{"10:00", "15:00"}

	// Saturday + Sunday: two weekend dates, two times each.
	slots, err := EnumerateSlots("2025-12-06", "2025-12-07", weekday, weekend, false, nil)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, model.Slot{Date: "2025-12-06", Time: "10:00", DayType: model.DaySaturday}, slots[0])
	assert.Equal(t, model.Slot{Date: "2025-12-06", Time: "15:00", DayType: model.DaySaturday}, slots[1])
	assert.Equal(t, model.Slot{Date: "2025-12-07", Time: "10:00", DayType: model.DaySunday}, slots[2])
	assert.Equal(t, model.Slot{Date: "2025-12-07", Time: "15:00", DayType: model.DaySunday}, slots[3])
}

func TestEnumerateSlotsFridayFlag(t *testing.T) {
	weekday := []string{"10:00"}
	weekend := []string{"18:00"}

	// 2025-12-12 is a Friday.
	slots, err := EnumerateSlots("2025-12-12", "2025-12-12", weekday, weekend, false, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "10:00", slots[0].Time)
	assert.Equal(t, model.DayFriday, slots[0].DayType)

	slots, err = EnumerateSlots("2025-12-12", "2025-12-12", weekday, weekend, true, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	// The flag switches the slot set but the day keeps its own label.
	assert.Equal(t, "18:00", slots[0].Time)
	assert.Equal(t, model.DayFriday, slots[0].DayType)
}

func TestEnumerateSlotsHolidayUsesWeekendSet(t *testing.T) {
	holidays := HolidaySet{"2025-12-10": true} // a Wednesday
	slots, err := EnumerateSlots("2025-12-10", "2025-12-10", []string{"10:00"}, []string{"18:00"}, false, holidays)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "18:00", slots[0].Time)
	assert.Equal(t, model.DayHoliday, slots[0].DayType)
}

func TestEnumerateSlotsErrors(t *testing.T) {
	_, err := EnumerateSlots("2025-12-10", "2025-12-09", []string{"10:00"}, nil, false, nil)
	require.Error(t, err)

	_, err = EnumerateSlots("10/12/2025", "2025-12-11", []string{"10:00"}, nil, false, nil)
	require.Error(t, err)
}

func TestEnumerateSlotsDeterministic(t *testing.T) {
	a, err := EnumerateSlots("2025-12-01", "2025-12-31", []string{"10:00", "12:00"}, []string{"10:00"}, true, HolidaySet{"2025-12-25": true})
	require.NoError(t, err)
	b, err := EnumerateSlots("2025-12-01", "2025-12-31", []string{"10:00", "12:00"}, []string{"10:00"}, true, HolidaySet{"2025-12-25": true})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMonth(t *testing.T) {
	assert.Equal(t, "2025-12", Month("2025-12-06"))
	assert.Equal(t, "bad", Month("bad"))
}
