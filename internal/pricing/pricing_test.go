package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomslots/slotsync/internal/model"
)

func fp(v float64) *float64 { return &v }

func fullTable() model.PriceTable {
	return model.PriceTable{
		Feriali:  &model.WeekdayTier{PriceTier: model.PriceTier{Unico: fp(10)}},
		Venerdi:  &model.PriceTier{Unico: fp(11)},
		Sabato:   &model.PriceTier{Unico: fp(12)},
		Domenica: &model.PriceTier{Unico: fp(13)},
		Festivi:  &model.PriceTier{Unico: fp(14)},
	}
}

func TestResolveTierDayTypes(t *testing.T) {
	table := fullTable()
	tests := []struct {
		name    string
		date    string
		dayType model.DayType
		want    float64
	}{
		{"weekday", "2025-12-10", model.DayWeekday, 10},
		{"friday", "2025-12-12", model.DayFriday, 11},
		{"saturday", "2025-12-13", model.DaySaturday, 12},
		{"sunday", "2025-12-14", model.DaySunday, 13},
		{"holiday", "2025-12-25", model.DayHoliday, 14},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tier := ResolveTier(tc.date, tc.dayType, table, false, nil)
			require.NotNil(t, tier)
			assert.Equal(t, tc.want, *tier.Unico)
		})
	}
}

func TestResolveTierExceptionAlwaysWins(t *testing.T) {
	table := fullTable()
	exc := map[string]*model.PriceTier{"2025-12-13": {Unico: fp(5)}}

	tier := ResolveTier("2025-12-13", model.DaySaturday, table, false, exc)
	require.NotNil(t, tier)
	assert.Equal(t, 5.0, *tier.Unico)

	// A nil exception entry is ignored, not treated as "no price".
	tier = ResolveTier("2025-12-13", model.DaySaturday, table, false, map[string]*model.PriceTier{"2025-12-13": nil})
	require.NotNil(t, tier)
	assert.Equal(t, 12.0, *tier.Unico)
}

func TestResolveTierNoFallbackForWeekendDays(t *testing.T) {
	// Only the weekday tier is configured: saturday, sunday and holiday
	// dates resolve to nothing rather than borrowing it.
	table := model.PriceTable{Feriali: &model.WeekdayTier{PriceTier: model.PriceTier{Unico: fp(10)}}}

	assert.Nil(t, ResolveTier("2025-12-13", model.DaySaturday, table, false, nil))
	assert.Nil(t, ResolveTier("2025-12-14", model.DaySunday, table, false, nil))
	assert.Nil(t, ResolveTier("2025-12-25", model.DayHoliday, table, false, nil))
}

func TestResolveTierFridayChain(t *testing.T) {
	date := "2025-12-12" // Friday

	// Without the flag: venerdi, then the generic weekday tier.
	table := model.PriceTable{Feriali: &model.WeekdayTier{PriceTier: model.PriceTier{Unico: fp(10)}}}
	tier := ResolveTier(date, model.DayFriday, table, false, nil)
	require.NotNil(t, tier)
	assert.Equal(t, 10.0, *tier.Unico)

	table.Venerdi = &model.PriceTier{Unico: fp(11)}
	tier = ResolveTier(date, model.DayFriday, table, false, nil)
	require.NotNil(t, tier)
	assert.Equal(t, 11.0, *tier.Unico)

	// With the flag the weekend chain takes over: sabato first, then
	// domenica, festivi and finally the generic weekday tier.  The
	// venerdi tier is not consulted at all.
	table.Sabato = &model.PriceTier{Unico: fp(12)}
	tier = ResolveTier(date, model.DayFriday, table, true, nil)
	require.NotNil(t, tier)
	assert.Equal(t, 12.0, *tier.Unico)

	table.Sabato = nil
	table.Domenica = &model.PriceTier{Unico: fp(13)}
	tier = ResolveTier(date, model.DayFriday, table, true, nil)
	require.NotNil(t, tier)
	assert.Equal(t, 13.0, *tier.Unico)

	table.Domenica = nil
	table.Festivi = &model.PriceTier{Unico: fp(14)}
	tier = ResolveTier(date, model.DayFriday, table, true, nil)
	require.NotNil(t, tier)
	assert.Equal(t, 14.0, *tier.Unico)

	table.Festivi = nil
	tier = ResolveTier(date, model.DayFriday, table, true, nil)
	require.NotNil(t, tier)
	assert.Equal(t, 10.0, *tier.Unico)

	table.Feriali = nil
	assert.Nil(t, ResolveTier(date, model.DayFriday, table, true, nil))
}

func TestResolveTierWeekdayOverrides(t *testing.T) {
	table := model.PriceTable{Feriali: &model.WeekdayTier{
		PriceTier: model.PriceTier{Unico: fp(10)},
		Lunedi:    &model.PriceTier{Unico: fp(7)},
		Mercoledi: &model.PriceTier{Unico: fp(8)},
	}}

	mon := ResolveTier("2025-12-08", model.DayWeekday, table, false, nil)
	require.NotNil(t, mon)
	assert.Equal(t, 7.0, *mon.Unico)

	tue := ResolveTier("2025-12-09", model.DayWeekday, table, false, nil)
	require.NotNil(t, tue)
	assert.Equal(t, 10.0, *tue.Unico)

	wed := ResolveTier("2025-12-10", model.DayWeekday, table, false, nil)
	require.NotNil(t, wed)
	assert.Equal(t, 8.0, *wed.Unico)
}

func TestDecideMode(t *testing.T) {
	tests := []struct {
		name string
		tier *model.PriceTier
		want model.TicketMode
	}{
		{"nil tier", nil, ""},
		{"empty tier", &model.PriceTier{}, ""},
		{"unico only", &model.PriceTier{Unico: fp(10)}, model.ModeUnico},
		{"typed only", &model.PriceTier{Adulto: fp(11), Bambino: fp(9)}, model.ModeTriple},
		{"single typed", &model.PriceTier{Handicap: fp(11)}, model.ModeTriple},
		{"unico wins over typed", &model.PriceTier{Unico: fp(10), Adulto: fp(11)}, model.ModeUnico},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecideMode(tc.tier))
		})
	}
}
