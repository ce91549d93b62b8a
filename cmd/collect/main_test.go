package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tweetsift "github.com/anatolykoptev/go-tweetsift"
	"github.com/anatolykoptev/go-tweetsift/collector"
)

func baseOptions() options {
	return options{
		start:         "2022-06-06T00:00:00Z",
		end:           "2022-06-30T00:00:00Z",
		pageSize:      100,
		chunk:         2,
		lang:          "en",
		requireTicker: true,
	}
}

func TestBuildConfig_TickerQueries(t *testing.T) {
	dir := t.TempDir()
	tickers := filepath.Join(dir, "nasdaq.csv")
	require.NoError(t, os.WriteFile(tickers, []byte("Symbol,Name\nAAPL,Apple\nMSFT,Microsoft\nTSLA,Tesla\n"), 0o644))
	emoticons := filepath.Join(dir, "emoticons.txt")
	require.NoError(t, os.WriteFile(emoticons, []byte("🙂\n🚀\n"), 0o644))

	o := baseOptions()
	o.tickers = tickers
	o.emoticons = emoticons

	cfg, err := buildConfig(o)
	require.NoError(t, err)
	require.Len(t, cfg.Queries, 2)
	assert.Equal(t, "($AAPL OR $MSFT) (🙂 OR 🚀) lang:en -is:retweet", cfg.Queries[0].String())
	assert.Equal(t, "$TSLA (🙂 OR 🚀) lang:en -is:retweet", cfg.Queries[1].String())
	require.NotNil(t, cfg.Filter)
	assert.True(t, cfg.Filter.RequireTicker)
	assert.True(t, cfg.Filter.Accept("buying $AAPL 🙂"))
	assert.False(t, cfg.Filter.Accept("buying $AAPL"))
	assert.Equal(t, collector.ModeProjection, cfg.Mode)
	assert.Equal(t, "2022-06-06T00:00:00Z", cfg.Start.Format("2006-01-02T15:04:05Z07:00"))
}

func TestBuildConfig_RawQueryKeepsAll(t *testing.T) {
	o := baseOptions()
	o.query = "#loveisland OR #LoveIsland OR Loveisland -is:retweet"
	o.full = true

	cfg, err := buildConfig(o)
	require.NoError(t, err)
	require.Len(t, cfg.Queries, 1)
	assert.Nil(t, cfg.Filter)
	assert.Equal(t, collector.ModeFull, cfg.Mode)
}

func TestBuildConfig_Errors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*options)
		field string
	}{
		{"no source", func(*options) {}, "tickers"},
		{"bad start", func(o *options) { o.query = "x"; o.start = "yesterday" }, "start"},
		{"inverted", func(o *options) { o.query = "x"; o.start, o.end = o.end, o.start }, "Start"},
		{"page size", func(o *options) { o.query = "x"; o.pageSize = 1000 }, "PageSize"},
		{"format", func(o *options) { o.tickers = "list.xlsx" }, "tickers-format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := baseOptions()
			tt.edit(&o)
			_, err := buildConfig(o)
			var ce *tweetsift.ConfigError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestLoadTickers_FormatFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing.JSON")
	require.NoError(t, os.WriteFile(path, []byte(`[{"ACT Symbol":"IBM"}]`), 0o644))

	got, err := loadTickers(options{tickers: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"IBM"}, got)
}

func TestRun_MissingBearer(t *testing.T) {
	t.Setenv(tweetsift.EnvBearerToken, "")
	o := baseOptions()
	o.query = "x"
	o.outDir = t.TempDir()

	err := run(t.Context(), o)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tweetsift.ErrMissingBearerToken))

	entries, err := os.ReadDir(o.outDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no output file before credentials are checked")
}
