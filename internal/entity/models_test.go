package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModels_CoversEveryTable(t *testing.T) {
	models := Models()
	require.Len(t, models, 5)

	var tables []string
	for _, m := range models {
		named, ok := m.(interface{ TableName() string })
		require.True(t, ok, "%T has no table name", m)
		tables = append(tables, named.TableName())
	}

	assert.Equal(t, []string{
		"stocks",
		"stock_prices",
		"stock_predictions",
		"stock_news",
		"analysis_runs",
	}, tables)
}
