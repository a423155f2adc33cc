package services

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"civic-feedback-server/models"
)

// DefaultPageSize is the number of table rows per page
const DefaultPageSize = 5

// EmptyTableMessage is shown in place of rows when a page is empty
const EmptyTableMessage = "No feedback data available"

// TableView holds the sort and page selection of the feedback table.
// Methods return updated copies; a TableView is never shared mutably.
type TableView struct {
	SortField     models.SortField     `json:"sort_field"`
	SortDirection models.SortDirection `json:"sort_direction"`
	Page          int                  `json:"page"`
	PageSize      int                  `json:"page_size"`
}

// NewTableView starts on page 1, newest first
func NewTableView(pageSize int) TableView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return TableView{
		SortField:     models.SortByTimestamp,
		SortDirection: models.SortDesc,
		Page:          1,
		PageSize:      pageSize,
	}
}

// ToggleSort flips the direction when field is already selected, otherwise
// selects field in descending order
func (v TableView) ToggleSort(field models.SortField) (TableView, error) {
	if field == "" {
		return v, fmt.Errorf("%w: %q", models.ErrUnknownSortField, field)
	}
	field, err := models.ParseSortField(string(field))
	if err != nil {
		return v, err
	}
	if field == v.SortField {
		if v.SortDirection == models.SortAsc {
			v.SortDirection = models.SortDesc
		} else {
			v.SortDirection = models.SortAsc
		}
		return v, nil
	}
	v.SortField = field
	v.SortDirection = models.SortDesc
	return v, nil
}

// WithPage requests a page; clamping happens when the page is rendered
func (v TableView) WithPage(page int) TableView {
	v.Page = page
	return v
}

// Next moves one page forward, never past the last page of count rows
func (v TableView) Next(count int) TableView {
	p := Paginate(count, v.Page+1, v.PageSize)
	v.Page = p.Page
	return v
}

// Previous moves one page back, never before page 1
func (v TableView) Previous(count int) TableView {
	p := Paginate(count, v.Page-1, v.PageSize)
	v.Page = p.Page
	return v
}

// Render sorts a copy of records and slices out the current page
func (v TableView) Render(records []models.Feedback) (models.TablePage, error) {
	pageSize := v.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	field, err := models.ParseSortField(string(v.SortField))
	if err != nil {
		return models.TablePage{}, err
	}
	direction, err := models.ParseSortDirection(string(v.SortDirection))
	if err != nil {
		return models.TablePage{}, err
	}
	sorted, err := SortFeedback(records, field, direction)
	if err != nil {
		return models.TablePage{}, err
	}

	pagination := Paginate(len(sorted), v.Page, pageSize)
	rows := make([]models.FeedbackView, 0, pagination.EndIndex-pagination.StartIndex)
	for _, f := range sorted[pagination.StartIndex:pagination.EndIndex] {
		row, err := f.View()
		if err != nil {
			return models.TablePage{}, fmt.Errorf("%w: feedback %s: %w", models.ErrInvalidFeedback, f.ID, err)
		}
		rows = append(rows, row)
	}

	page := models.TablePage{
		Rows:          rows,
		Pagination:    pagination,
		SortField:     field,
		SortDirection: direction,
	}
	if len(rows) == 0 {
		page.EmptyMessage = EmptyTableMessage
	}
	return page, nil
}

// SortFeedback returns a sorted copy of records. Equal keys fall back to
// ID ascending whatever the direction, so output order is reproducible.
// Empty field and direction mean timestamp, descending.
func SortFeedback(records []models.Feedback, field models.SortField, direction models.SortDirection) ([]models.Feedback, error) {
	field, err := models.ParseSortField(string(field))
	if err != nil {
		return nil, err
	}
	direction, err = models.ParseSortDirection(string(direction))
	if err != nil {
		return nil, err
	}

	var compare func(a, b models.Feedback) int
	switch field {
	case models.SortByTimestamp:
		compare = func(a, b models.Feedback) int { return compareInt64(a.Timestamp, b.Timestamp) }
	case models.SortByRating:
		compare = func(a, b models.Feedback) int { return compareInt64(int64(a.Rating), int64(b.Rating)) }
	case models.SortByServiceType:
		// Collators keep internal buffers, so each sort gets its own
		col := collate.New(language.English)
		compare = func(a, b models.Feedback) int {
			return col.CompareString(string(a.ServiceType), string(b.ServiceType))
		}
	}

	sorted := make([]models.Feedback, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		c := compare(sorted[i], sorted[j])
		if c == 0 {
			return sorted[i].ID < sorted[j].ID
		}
		if direction == models.SortDesc {
			return c > 0
		}
		return c < 0
	})
	return sorted, nil
}

// Paginate clamps page into [1, totalPages] and computes the slice bounds.
// An empty collection still has one (empty) page.
func Paginate(count, page, pageSize int) models.Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if count < 0 {
		count = 0
	}

	totalPages := (count + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > count {
		end = count
	}

	return models.Pagination{
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		StartIndex:  start,
		EndIndex:    end,
		TotalCount:  count,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
