package main

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindcli/internal/kind"
)

func TestBuildSearchConfig(t *testing.T) {
	t.Run("explicit range and types", func(t *testing.T) {
		sc, err := buildSearchConfig("2024-01-01", "2024-06-30",
			"투자경고종목, 불성실공시", "growth", 5, 100)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), sc.Range.Start)
		assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), sc.Range.End)
		assert.Equal(t, kind.MarketGrowth, sc.Market)
		assert.Equal(t, []kind.DisclosureType{
			kind.TypeInvestmentWarning, kind.TypeUnfaithfulDisclosure,
		}, sc.Types)
		assert.Equal(t, 5, sc.MaxPages)
		assert.Equal(t, 100, sc.PageSize)
	})

	t.Run("missing to date defaults to today", func(t *testing.T) {
		sc, err := buildSearchConfig("2024-01-01", "", "투자경고종목", "all", 0, 100)
		require.NoError(t, err)
		assert.False(t, sc.Range.End.IsZero())
		assert.False(t, sc.Range.End.Before(sc.Range.Start))
	})

	t.Run("invalid inputs", func(t *testing.T) {
		tests := []struct {
			name   string
			from   string
			to     string
			market string
		}{
			{"bad from date", "01/01/2024", "", "all"},
			{"bad to date", "2024-01-01", "June", "all"},
			{"inverted range", "2024-06-30", "2024-01-01", "all"},
			{"unknown market", "2024-01-01", "2024-06-30", "nasdaq"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := buildSearchConfig(tt.from, tt.to, "투자경고종목", tt.market, 0, 100)
				assert.Error(t, err)
			})
		}
	})
}

func TestFlagPassed(t *testing.T) {
	fs := flag.NewFlagSet("collector", flag.ContinueOnError)
	fs.Bool("headless", true, "")
	fs.String("from", "", "")

	require.NoError(t, fs.Parse([]string{"-from", "2024-01-01"}))

	assert.True(t, flagPassed(fs, "from"))
	assert.False(t, flagPassed(fs, "headless"),
		"a flag left at its default is not treated as set")
}
