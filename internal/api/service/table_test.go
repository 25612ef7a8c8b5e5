package service

import (
	"testing"

	"golang-stock-insight/internal/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableRows() []dto.StockListItem {
	return []dto.StockListItem{
		{Ticker: "MSFT", Name: "Microsoft", Rank: 2, InvestmentScore: 70, NewsCount: 8},
		{Ticker: "AAPL", Name: "Apple", Rank: 1, InvestmentScore: 90, NewsCount: 12},
		{Ticker: "NVDA", Name: "Nvidia", Rank: 3, InvestmentScore: 85, NewsCount: 20},
	}
}

func tickers(rows []dto.StockListItem) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Ticker
	}
	return out
}

func TestStockTable_InitialOrderIsRankAscending(t *testing.T) {
	table := NewStockTable(tableRows())
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, tickers(table.Rows()))
	assert.Equal(t, SortByRank, table.Column())
	assert.Equal(t, SortAsc, table.Direction())
}

func TestStockTable_ToggleNewColumnSortsAscending(t *testing.T) {
	table := NewStockTable(tableRows())
	table.Toggle(SortByInvestmentScore)

	assert.Equal(t, SortByInvestmentScore, table.Column())
	assert.Equal(t, SortAsc, table.Direction())
	assert.Equal(t, []string{"MSFT", "NVDA", "AAPL"}, tickers(table.Rows()))
}

func TestStockTable_RepeatToggleFlipsStateButSortsWithPreviousDirection(t *testing.T) {
	table := NewStockTable(tableRows())
	table.Toggle(SortByInvestmentScore)

	// The second toggle flips the stored direction to desc, but the re-sort
	// still applies asc; the new direction only shows up on the third toggle.
	table.Toggle(SortByInvestmentScore)
	assert.Equal(t, SortDesc, table.Direction())
	assert.Equal(t, []string{"MSFT", "NVDA", "AAPL"}, tickers(table.Rows()))

	table.Toggle(SortByInvestmentScore)
	assert.Equal(t, SortAsc, table.Direction())
	assert.Equal(t, []string{"AAPL", "NVDA", "MSFT"}, tickers(table.Rows()))
}

func TestStockTable_SwitchingColumnResetsDirection(t *testing.T) {
	table := NewStockTable(tableRows())
	table.Toggle(SortByInvestmentScore)
	table.Toggle(SortByInvestmentScore)
	require.Equal(t, SortDesc, table.Direction())

	// Selecting another column resets to asc, but the sort still applies the
	// desc left over from the previous state.
	table.Toggle(SortByNewsCount)
	assert.Equal(t, SortByNewsCount, table.Column())
	assert.Equal(t, SortAsc, table.Direction())
	assert.Equal(t, []string{"NVDA", "AAPL", "MSFT"}, tickers(table.Rows()))
}

func TestStockTable_VisiblePagination(t *testing.T) {
	var rows []dto.StockListItem
	for i := 0; i < 15; i++ {
		rows = append(rows, dto.StockListItem{Ticker: string(rune('A' + i)), Rank: i + 1})
	}
	table := NewStockTable(rows)

	assert.Len(t, table.Visible(), collapsedRowCount)

	table.Expand()
	assert.Len(t, table.Visible(), 15)

	table.Collapse()
	assert.Len(t, table.Visible(), collapsedRowCount)
}

func TestStockTable_VisibleShortListShowsAll(t *testing.T) {
	table := NewStockTable(tableRows())
	assert.Len(t, table.Visible(), 3)
}
