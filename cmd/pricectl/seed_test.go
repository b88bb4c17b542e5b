package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeed(t *testing.T) {
	t.Run("decodes_entries", func(t *testing.T) {
		doc := `
stocks:
  - symbol: aapl
    name: Apple Inc.
    sector: Technology
    exchange: NMS
  - symbol: BRK-B
    name: Berkshire Hathaway
`
		stocks, err := parseSeed(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, stocks, 2)
		assert.Equal(t, "AAPL", stocks[0].Symbol)
		assert.Equal(t, "Technology", stocks[0].Sector)
		assert.Equal(t, "BRK-B", stocks[1].Symbol)
	})

	t.Run("empty_document", func(t *testing.T) {
		stocks, err := parseSeed(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, stocks)
	})

	t.Run("invalid_ticker", func(t *testing.T) {
		_, err := parseSeed(strings.NewReader("stocks:\n  - symbol: \"not a ticker\"\n"))
		assert.Error(t, err)
	})

	t.Run("unknown_field", func(t *testing.T) {
		_, err := parseSeed(strings.NewReader("stocks:\n  - symbol: AAPL\n    ceo: someone\n"))
		assert.Error(t, err)
	})
}
