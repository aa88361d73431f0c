package missions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/skyops/core/model"
)

func mission(id, start, end string) model.Mission {
	return model.Mission{ID: id, Start: model.ParseDate(start), End: model.ParseDate(end)}
}

func TestDurationInclusive(t *testing.T) {
	assert.Equal(t, 3, Duration(mission("PRJ001", "2026-02-06", "2026-02-08")))
	assert.Equal(t, 1, Duration(mission("PRJ002", "2026-02-06", "2026-02-06")))
	assert.Equal(t, 0, Duration(mission("PRJ003", "", "2026-02-06")))
}

func TestDurationRoundsPartialDaysUp(t *testing.T) {
	m := model.Mission{
		Start: time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 2, 7, 6, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, Duration(m))
}

func TestOverlaps(t *testing.T) {
	d := model.ParseDate
	assert.True(t, Overlaps(d("2026-02-06"), d("2026-02-08"), d("2026-02-08"), d("2026-02-10")), "shared boundary day")
	assert.False(t, Overlaps(d("2026-02-06"), d("2026-02-08"), d("2026-02-09"), d("2026-02-10")))
	assert.False(t, Overlaps(time.Time{}, d("2026-02-08"), d("2026-02-01"), d("2026-02-10")), "unknown start")
}

func TestQuery(t *testing.T) {
	ms := []model.Mission{
		{ID: "PRJ001", Client: "Client A", Location: "Bangalore", Priority: model.PriorityHigh, Start: model.ParseDate("2026-02-06"), End: model.ParseDate("2026-02-08")},
		{ID: "PRJ002", Client: "Client B", Location: "Mumbai", Priority: model.PriorityUrgent, Start: model.ParseDate("2026-02-07"), End: model.ParseDate("2026-02-09")},
		{ID: "PRJ003", Client: "Client C", Location: "Bangalore", Priority: model.PriorityStandard, Start: model.ParseDate("2026-02-10"), End: model.ParseDate("2026-02-12")},
	}
	assert.Len(t, Query(ms, Filter{Client: "client"}), 3)
	assert.Len(t, Query(ms, Filter{Location: "bangalore"}), 2)
	assert.Len(t, Query(ms, Filter{Priority: "urgent"}), 1)
	assert.Len(t, Query(ms, Filter{StartDate: model.ParseDate("2026-02-07")}), 2)
	assert.Len(t, Query(ms, Filter{EndDate: model.ParseDate("2026-02-09")}), 2)
	assert.Len(t, InDateRange(ms, model.ParseDate("2026-02-09"), model.ParseDate("2026-02-10")), 2)
	assert.Equal(t, "PRJ002", Urgent(ms)[0].ID)
	_, ok := Find(ms, "PRJ404")
	assert.False(t, ok)
}
