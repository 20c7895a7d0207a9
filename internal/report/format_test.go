package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
)

func TestFormatToday_MinimalSummary(t *testing.T) {
	sum := &domain.NightSummary{Date: "May 05, 2025", City: "usa/detroit"}
	text := FormatToday(sum, nil, "")
	lines := strings.Split(text, "\n")
	assert.Equal(t, "TODAY — usa/detroit · May 05, 2025", lines[0])
	assert.Equal(t, sourcesFooter, lines[len(lines)-1])
	assert.NotContains(t, text, "Planets:")
	assert.NotContains(t, text, "Moon:")
}

func TestFormatWeekly_PlanetOrderAndWindows(t *testing.T) {
	sum := &domain.NightSummary{
		City: "Detroit",
		Planets: []domain.PlanetWindow{
			{Name: "Mercury"}, {Name: "Mars"}, {Name: "Venus"}, {Name: "Neptune"},
		},
	}
	text := FormatWeekly(sum, nil, "May 05, 2025", "")

	venus := strings.Index(text, "- Venus: pre-dawn best")
	mars := strings.Index(text, "- Mars: after dusk")
	mercury := strings.Index(text, "- Mercury: near twilight — hard")
	require.NotEqual(t, -1, venus)
	require.NotEqual(t, -1, mars)
	require.NotEqual(t, -1, mercury)
	assert.Less(t, venus, mars)
	assert.Less(t, mars, mercury)
	assert.NotContains(t, text, "Neptune")
}

func nowAt(t *testing.T, tz string, hh, mm int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	require.NoError(t, err)
	n := time.Now().In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), hh, mm, 0, 0, loc)
}

func TestFormatNow_PlanetWindows(t *testing.T) {
	const tz = "America/Detroit"
	sum := &domain.NightSummary{
		City:      "Detroit",
		NightTime: "9:13 pm – 5:47 am",
		Planets: []domain.PlanetWindow{
			// up now at 20:00, sets 23:30
			{Name: "Mars", Rise: "10:54 am", Set: "11:30 pm"},
			// rises at 21:15, within 3h of 20:00
			{Name: "Saturn", Rise: "9:15 pm", Set: "9:00 am"},
			// far away, must not appear
			{Name: "Venus", Rise: "4:02 am", Set: "5:58 pm"},
		},
	}
	now := nowAt(t, tz, 20, 0)
	text := FormatNow(sum, nil, tz, now)

	assert.Contains(t, text, "- Mars: up now, sets in 3h 30m")
	assert.Contains(t, text, "- Saturn: rises in 1h 15m")
	assert.NotContains(t, text, "- Venus:")
	assert.Contains(t, text, "Night window: 9:13 pm – 5:47 am")
}

func TestFormatNow_ISSInsideWindow(t *testing.T) {
	const tz = "UTC"
	sum := &domain.NightSummary{City: "Obs"}
	iss := &domain.ISSPass{MaxTime: "21:30", MaxAlt: "78°"}

	text := FormatNow(sum, iss, tz, nowAt(t, tz, 20, 0))
	assert.Contains(t, text, "ISS: max at 9:30 PM (max 78°)")

	text = FormatNow(sum, iss, tz, nowAt(t, tz, 10, 0))
	assert.NotContains(t, text, "ISS:")
}

func TestFormatNow_QuietSky(t *testing.T) {
	sum := &domain.NightSummary{City: "Obs"}
	text := FormatNow(sum, nil, "UTC", nowAt(t, "UTC", 12, 0))
	assert.Contains(t, text, "No obvious activity within ~3 hours.")
	assert.Contains(t, text, "Tip: use /today for full details.")
}

func TestCleanText(t *testing.T) {
	in := "Hello\u200b world\ufeff\x00!\n\n\n\nNext  \t  line\r"
	got := CleanText(in)
	assert.Equal(t, "Hello world!\n\nNext line", got)
}

func TestCleanText_KeepsNewlinesAndTabs(t *testing.T) {
	in := "a\n\tb"
	assert.Equal(t, "a\n\tb", CleanText(in))
}
