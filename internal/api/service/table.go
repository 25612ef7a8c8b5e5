package service

import (
	"sort"

	"golang-stock-insight/internal/api/dto"
)

// SortColumn identifies a sortable column of the ranked table.
type SortColumn string

const (
	SortByRank             SortColumn = "rank"
	SortByTicker           SortColumn = "ticker"
	SortByName             SortColumn = "name"
	SortByInvestmentScore  SortColumn = "investment_score"
	SortByPredictionChange SortColumn = "prediction_change"
	SortByNewsCount        SortColumn = "news_count"
)

// SortDirection is the requested sort order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// collapsedRowCount is how many rows the collapsed table shows.
const collapsedRowCount = 10

// StockTable holds the in-memory ranked list with its sort and pagination
// state.
type StockTable struct {
	rows      []dto.StockListItem
	column    SortColumn
	direction SortDirection
	expanded  bool
}

// NewStockTable creates a table over rows, initially sorted by rank ascending.
func NewStockTable(rows []dto.StockListItem) *StockTable {
	t := &StockTable{
		rows:      append([]dto.StockListItem(nil), rows...),
		column:    SortByRank,
		direction: SortAsc,
	}
	t.sortRows(t.column, t.direction)
	return t
}

// Toggle selects column for sorting. Re-selecting the current column flips
// the direction, but the re-sort applies the direction as it was before the
// flip; the flipped direction only takes effect on the next Toggle. Keep this
// one-step lag: the dashboard has always behaved this way and consumers
// depend on it.
func (t *StockTable) Toggle(column SortColumn) {
	applied := t.direction
	if t.column == column {
		if t.direction == SortAsc {
			t.direction = SortDesc
		} else {
			t.direction = SortAsc
		}
	} else {
		t.column = column
		t.direction = SortAsc
	}
	t.sortRows(column, applied)
}

// Column returns the currently selected sort column.
func (t *StockTable) Column() SortColumn {
	return t.column
}

// Direction returns the currently selected sort direction.
func (t *StockTable) Direction() SortDirection {
	return t.direction
}

// Expand reveals the full list.
func (t *StockTable) Expand() {
	t.expanded = true
}

// Collapse returns to the first-page view.
func (t *StockTable) Collapse() {
	t.expanded = false
}

// Visible returns the rows currently on display: the first 10 when collapsed,
// everything when expanded.
func (t *StockTable) Visible() []dto.StockListItem {
	if t.expanded || len(t.rows) <= collapsedRowCount {
		return append([]dto.StockListItem(nil), t.rows...)
	}
	return append([]dto.StockListItem(nil), t.rows[:collapsedRowCount]...)
}

// Rows returns the full ordered list.
func (t *StockTable) Rows() []dto.StockListItem {
	return append([]dto.StockListItem(nil), t.rows...)
}

func (t *StockTable) sortRows(column SortColumn, direction SortDirection) {
	less := lessFunc(column)
	sort.SliceStable(t.rows, func(i, j int) bool {
		if direction == SortDesc {
			return less(t.rows[j], t.rows[i])
		}
		return less(t.rows[i], t.rows[j])
	})
}

func lessFunc(column SortColumn) func(a, b dto.StockListItem) bool {
	switch column {
	case SortByTicker:
		return func(a, b dto.StockListItem) bool { return a.Ticker < b.Ticker }
	case SortByName:
		return func(a, b dto.StockListItem) bool { return a.Name < b.Name }
	case SortByInvestmentScore:
		return func(a, b dto.StockListItem) bool { return a.InvestmentScore < b.InvestmentScore }
	case SortByPredictionChange:
		return func(a, b dto.StockListItem) bool { return a.PredictionChange < b.PredictionChange }
	case SortByNewsCount:
		return func(a, b dto.StockListItem) bool { return a.NewsCount < b.NewsCount }
	default:
		return func(a, b dto.StockListItem) bool { return a.Rank < b.Rank }
	}
}
