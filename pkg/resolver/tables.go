package resolver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// lookup table file names inside decoders directory
const (
	NamesFile   = "stock_id.json"
	TickersFile = "ticker_to_id.json"
	SymbolsFile = "symbol_to_id.json"
)

// LoadTables reads all three lookup tables from dir. Values may be json strings or numbers,
// anything else fails the whole load.
func LoadTables(dir string) (Tables, error) {
	var t Tables
	var err error
	if t.Names, err = loadMap(filepath.Join(dir, NamesFile)); err != nil {
		return Tables{}, err
	}
	if t.Tickers, err = loadMap(filepath.Join(dir, TickersFile)); err != nil {
		return Tables{}, err
	}
	if t.Symbols, err = loadMap(filepath.Join(dir, SymbolsFile)); err != nil {
		return Tables{}, err
	}
	return t, nil
}

func loadMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	res := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			res[k] = val
		case json.Number:
			res[k] = val.String()
		default:
			return nil, fmt.Errorf("parse %s: unexpected value type %T for key %q", filepath.Base(path), v, k)
		}
	}
	return res, nil
}
