package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civic-feedback-server/models"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		page      int
		wantPage  int
		wantPages int
		wantStart int
		wantEnd   int
	}{
		{"first page", 12, 1, 1, 3, 0, 5},
		{"last partial page", 12, 3, 3, 3, 10, 12},
		{"zero clamps to first", 12, 0, 1, 3, 0, 5},
		{"negative clamps to first", 12, -1, 1, 3, 0, 5},
		{"past the end clamps to last", 12, 99, 3, 3, 10, 12},
		{"empty collection has one page", 0, 4, 1, 1, 0, 0},
		{"exact multiple", 10, 2, 2, 2, 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.count, tt.page, 5)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantStart, p.StartIndex)
			assert.Equal(t, tt.wantEnd, p.EndIndex)
			assert.Equal(t, tt.count, p.TotalCount)
			assert.Equal(t, p.Page > 1, p.HasPrevious)
			assert.Equal(t, p.Page < p.TotalPages, p.HasNext)
		})
	}
}

func TestPaginateDefaultsPageSize(t *testing.T) {
	p := Paginate(7, 1, 0)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 2, p.TotalPages)
}

func TestToggleSort(t *testing.T) {
	view := NewTableView(5)
	require.Equal(t, models.SortByTimestamp, view.SortField)
	require.Equal(t, models.SortDesc, view.SortDirection)

	view, err := view.ToggleSort(models.SortByTimestamp)
	require.NoError(t, err)
	assert.Equal(t, models.SortAsc, view.SortDirection)

	view, err = view.ToggleSort(models.SortByTimestamp)
	require.NoError(t, err)
	assert.Equal(t, models.SortDesc, view.SortDirection)

	view, err = view.ToggleSort(models.SortByTimestamp)
	require.NoError(t, err)
	view, err = view.ToggleSort(models.SortByRating)
	require.NoError(t, err)
	assert.Equal(t, models.SortByRating, view.SortField)
	assert.Equal(t, models.SortDesc, view.SortDirection)
}

func TestToggleSortRejectsUnknownField(t *testing.T) {
	view := NewTableView(5)

	_, err := view.ToggleSort("comment")
	assert.ErrorIs(t, err, models.ErrUnknownSortField)

	_, err = view.ToggleSort("")
	assert.ErrorIs(t, err, models.ErrUnknownSortField)
}

func TestSortFeedbackTieBreaksOnID(t *testing.T) {
	records := []models.Feedback{
		newFeedback("c", models.ServiceWater, 4, time.Hour),
		newFeedback("a", models.ServiceWater, 4, time.Hour),
		newFeedback("b", models.ServiceWater, 2, time.Hour),
	}

	desc, err := SortFeedback(records, models.SortByRating, models.SortDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, ids(desc))

	asc, err := SortFeedback(records, models.SortByRating, models.SortAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(asc))

	// input untouched
	assert.Equal(t, []string{"c", "a", "b"}, ids(records))
}

func TestSortFeedbackByServiceType(t *testing.T) {
	sorted, err := SortFeedback(sevenRecords(), models.SortByServiceType, models.SortAsc)
	require.NoError(t, err)

	services := make([]models.ServiceType, 0, len(sorted))
	for _, f := range sorted {
		services = append(services, f.ServiceType)
	}
	assert.Equal(t, []models.ServiceType{
		models.ServiceDrainage,
		models.ServiceElectricity,
		models.ServiceGarbage,
		models.ServiceRoads,
		models.ServiceRoads,
		models.ServiceWater,
		models.ServiceWater,
	}, services)
	assert.Equal(t, "f2", sorted[3].ID)
	assert.Equal(t, "f6", sorted[4].ID)
}

func TestSortFeedbackDefaultsToNewestFirst(t *testing.T) {
	sorted, err := SortFeedback(sevenRecords(), "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f4", "f6", "f2", "f3", "f7", "f5"}, ids(sorted))
}

func TestRenderPages(t *testing.T) {
	records := make([]models.Feedback, 0, 12)
	for i := 0; i < 12; i++ {
		records = append(records, newFeedback(fmt.Sprintf("r%02d", i), models.ServiceWater, 3, time.Duration(i)*time.Minute))
	}

	view := NewTableView(5).WithPage(3)
	page, err := view.Render(records)
	require.NoError(t, err)
	assert.Len(t, page.Rows, 2)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, "r10", page.Rows[0].ID)
	assert.Equal(t, models.SentimentNeutral, page.Rows[0].Sentiment)
	assert.Empty(t, page.EmptyMessage)

	page, err = view.WithPage(42).Render(records)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.Page)
}

func TestRenderEmpty(t *testing.T) {
	page, err := NewTableView(5).Render(nil)
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
	assert.Equal(t, EmptyTableMessage, page.EmptyMessage)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestRenderZeroValueView(t *testing.T) {
	page, err := TableView{}.Render(sevenRecords())
	require.NoError(t, err)
	assert.Equal(t, models.SortByTimestamp, page.SortField)
	assert.Equal(t, models.SortDesc, page.SortDirection)
	assert.Len(t, page.Rows, DefaultPageSize)
}

func TestNextAndPrevious(t *testing.T) {
	view := NewTableView(5)

	view = view.Next(12)
	assert.Equal(t, 2, view.Page)
	view = view.Next(12).Next(12)
	assert.Equal(t, 3, view.Page)

	view = view.Previous(12).Previous(12).Previous(12)
	assert.Equal(t, 1, view.Page)
}
