package airport

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed data/airports.json
var defaultData []byte

// LoadError is returned when the airport data cannot be read or parsed.
// It is always fatal for startup: the map has nothing to show without it.
type LoadError struct {
	Source string // File path, or "embedded" for the bundled data
	Err    error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load airports from %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Catalog is the ordered, read-only list of airports loaded at startup.
type Catalog struct {
	airports []Airport
	source   string
}

// Default returns the catalog bundled into the binary.
func Default() (*Catalog, error) {
	return load(bytes.NewReader(defaultData), "embedded")
}

// LoadFile reads a catalog from a JSON file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	return load(f, path)
}

// Load reads a catalog from r. The payload must be a JSON array of airports.
func Load(r io.Reader) (*Catalog, error) {
	return load(r, "reader")
}

// LoadOrDefault loads path when it is set, otherwise the bundled catalog.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

func load(r io.Reader, source string) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	var airports []Airport
	if err := json.Unmarshal(data, &airports); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	for i, a := range airports {
		if err := a.Validate(); err != nil {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("entry %d: %w", i, err)}
		}
	}

	return &Catalog{airports: airports, source: source}, nil
}

// NewCatalog builds a catalog from an in-memory list. The slice is copied.
func NewCatalog(airports []Airport) *Catalog {
	list := make([]Airport, len(airports))
	copy(list, airports)
	return &Catalog{airports: list, source: "memory"}
}

// All returns a copy of the airports in load order.
func (c *Catalog) All() []Airport {
	list := make([]Airport, len(c.airports))
	copy(list, c.airports)
	return list
}

// Len returns the number of airports
func (c *Catalog) Len() int {
	return len(c.airports)
}

// Source describes where the catalog was loaded from.
func (c *Catalog) Source() string {
	return c.source
}

// Lookup returns the first airport whose code matches, ignoring case.
func (c *Catalog) Lookup(code string) (Airport, bool) {
	code = strings.TrimSpace(code)
	for _, a := range c.airports {
		if strings.EqualFold(a.Code, code) {
			return a, true
		}
	}
	return Airport{}, false
}

// DuplicateCodes returns the codes, upper-cased, that more than one airport
// uses, in order of first repeat.
func (c *Catalog) DuplicateCodes() []string {
	seen := make(map[string]int, len(c.airports))
	var dups []string
	for _, a := range c.airports {
		code := strings.ToUpper(strings.TrimSpace(a.Code))
		seen[code]++
		if seen[code] == 2 {
			dups = append(dups, code)
		}
	}
	return dups
}
