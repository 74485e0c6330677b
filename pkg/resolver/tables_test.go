package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTables(t *testing.T, dir, names, tickers, symbols string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, NamesFile), []byte(names), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TickersFile), []byte(tickers), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SymbolsFile), []byte(symbols), 0o600))
}

func TestLoadTables(t *testing.T) {
	t.Run("strings and numbers", func(t *testing.T) {
		dir := t.TempDir()
		writeTables(t, dir, `{"1": "11 bit studios SA", "62": "Atrem SA"}`, `{"11B": 1, "ATR": "62"}`, `{"11BIT": 1}`)
		tbl, err := LoadTables(dir)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"1": "11 bit studios SA", "62": "Atrem SA"}, tbl.Names)
		assert.Equal(t, map[string]string{"11B": "1", "ATR": "62"}, tbl.Tickers)
		assert.Equal(t, map[string]string{"11BIT": "1"}, tbl.Symbols)
	})

	t.Run("missing file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, NamesFile), []byte(`{}`), 0o600))
		_, err := LoadTables(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), TickersFile)
	})

	t.Run("broken json", func(t *testing.T) {
		dir := t.TempDir()
		writeTables(t, dir, `{"1": "x"`, `{}`, `{}`)
		_, err := LoadTables(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse "+NamesFile)
	})

	t.Run("wrong value type", func(t *testing.T) {
		dir := t.TempDir()
		writeTables(t, dir, `{"1": "x"}`, `{"A": ["1"]}`, `{}`)
		_, err := LoadTables(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected value type")
	})
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	writeTables(t, dir, `{"1": "Alpha SA"}`, `{"ALP": "1"}`, `{}`)
	tbl, err := LoadTables(dir)
	require.NoError(t, err)
	r := New(tbl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := &Watcher{Dir: dir, Resolver: r, Debounce: 20 * time.Millisecond}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond) // let watcher subscribe

	// broken file keeps old tables
	require.NoError(t, os.WriteFile(filepath.Join(dir, TickersFile), []byte(`{"ALP": `), 0o600))
	time.Sleep(150 * time.Millisecond)
	id, err := r.Resolve("alp")
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	// unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	require.NoError(t, os.WriteFile(filepath.Join(dir, TickersFile), []byte(`{"ALP": "1", "BET": "2"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, NamesFile), []byte(`{"1": "Alpha SA", "2": "Beta SA"}`), 0o600))
	require.Eventually(t, func() bool {
		id, err := r.Resolve("bet")
		return err == nil && id == "2"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watcher didn't stop")
	}
}

func TestWatcher_BadDir(t *testing.T) {
	w := &Watcher{Dir: filepath.Join(t.TempDir(), "missing"), Resolver: New(Tables{})}
	err := w.Run(context.Background())
	require.Error(t, err)
}

func TestIsTableFile(t *testing.T) {
	assert.True(t, isTableFile("/a/b/"+NamesFile))
	assert.True(t, isTableFile(SymbolsFile))
	assert.False(t, isTableFile("/a/b/other.json"))
}
