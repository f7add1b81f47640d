// internal/shapes/shapes.go
//
// Piece catalog management for the game engine.
//
// Responsibilities:
//   - Load the tetromino rotation layouts from a YAML file or fall back to the
//     embedded default (assets/pieces.yaml).
//   - Validate a catalog before the engine ever builds a piece from it.
//   - Expose the process-wide catalog via Init/Default.
//
// Layout format:
//   Each kind maps to an ordered list of rotation states. A state is exactly
//   four cell indices in a RefWidth-column reference frame: index n sits at
//   row n / RefWidth, column n % RefWidth. All cells live in rows 0..3 and
//   columns MinCol..MaxCol; every state touches row 0 and is orthogonally
//   connected.
//
// Initialization behavior (Init):
//   1. If a path is given, the catalog is read from that file.
//   2. Otherwise the embedded default is used.
//   Init runs once (sync.Once); later calls return the first result.

package shapes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/blockfall/assets"
)

const (
	RefWidth = 10 // columns of the reference frame
	MinCol   = 3  // leftmost column a layout may use
	MaxCol   = 6  // rightmost column a layout may use
	Span     = MaxCol - MinCol + 1
	Rows     = 4 // spawn rows a layout may use
	Cells    = 4 // occupied cells per state
)

// ErrInvalidCatalog is returned for any catalog that fails validation.
var ErrInvalidCatalog = errors.New("shapes: invalid catalog")

// rotations fixes the number of rotation states per kind.
var rotations = map[string]int{
	"O": 1,
	"I": 2, "S": 2, "Z": 2,
	"L": 4, "J": 4, "T": 4,
}

// Layout is one rotation state: four reference-frame cell indices.
type Layout []int

// Catalog maps a piece kind ("O", "I", ...) to its rotation states.
type Catalog map[string][]Layout

var (
	initOnce   sync.Once
	current    Catalog
	initialErr error
)

// Init loads the process-wide catalog exactly once.
func Init(path string) error {
	initOnce.Do(func() {
		if path != "" {
			current, initialErr = LoadFile(path)
			return
		}
		current, initialErr = Embedded()
	})
	return initialErr
}

// Default returns the process-wide catalog, initialising it from the embedded
// default if Init was never called. It returns nil if loading failed.
func Default() Catalog {
	if err := Init(""); err != nil {
		return nil
	}
	return current
}

// Embedded parses the catalog compiled into the binary.
func Embedded() (Catalog, error) {
	raw, err := assets.Pieces()
	if err != nil {
		return nil, fmt.Errorf("read embedded pieces: %w", err)
	}
	return Load(bytes.NewReader(raw))
}

// LoadFile reads and validates a catalog from path.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load decodes a YAML catalog from r, normalises kind names to upper case and
// validates the result.
func Load(r io.Reader) (Catalog, error) {
	var raw map[string][]Layout
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}

	c := make(Catalog, len(raw))
	for name, states := range raw {
		key := strings.ToUpper(strings.TrimSpace(name))
		if _, dup := c[key]; dup {
			return nil, fmt.Errorf("%w: kind %q listed twice", ErrInvalidCatalog, key)
		}
		c[key] = states
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that c holds exactly the seven tetromino kinds with the
// expected rotation counts and well-formed layouts.
func Validate(c Catalog) error {
	for kind, want := range rotations {
		states, ok := c[kind]
		if !ok {
			return fmt.Errorf("%w: missing kind %q", ErrInvalidCatalog, kind)
		}
		if len(states) != want {
			return fmt.Errorf("%w: kind %q has %d rotations, want %d", ErrInvalidCatalog, kind, len(states), want)
		}
		for i, l := range states {
			if err := l.validate(); err != nil {
				return fmt.Errorf("%w: kind %q rotation %d: %v", ErrInvalidCatalog, kind, i, err)
			}
		}
	}
	if len(c) != len(rotations) {
		return fmt.Errorf("%w: unexpected kinds %v", ErrInvalidCatalog, extraKinds(c))
	}
	return nil
}

// Kinds returns the catalog's kind names in sorted order.
func (c Catalog) Kinds() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// validate checks cell count, bounds, uniqueness, anchoring to row 0 and
// orthogonal connectivity.
func (l Layout) validate() error {
	if len(l) != Cells {
		return fmt.Errorf("has %d cells, want %d", len(l), Cells)
	}
	seen := make(map[int]bool, Cells)
	top := Rows
	for _, n := range l {
		row, col := n/RefWidth, n%RefWidth
		if n < 0 || row >= Rows || col < MinCol || col > MaxCol {
			return fmt.Errorf("cell %d outside rows 0..%d, columns %d..%d", n, Rows-1, MinCol, MaxCol)
		}
		if seen[n] {
			return fmt.Errorf("cell %d repeated", n)
		}
		seen[n] = true
		top = min(top, row)
	}
	if top != 0 {
		return errors.New("does not start in row 0")
	}
	if !connected(l, seen) {
		return errors.New("cells are not connected")
	}
	return nil
}

// connected flood-fills from the first cell across orthogonal neighbours.
func connected(l Layout, cells map[int]bool) bool {
	visited := map[int]bool{l[0]: true}
	stack := []int{l[0]}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, m := range []int{n - RefWidth, n + RefWidth, n - 1, n + 1} {
			if !cells[m] || visited[m] {
				continue
			}
			// No wrapping between rows through the ±1 neighbours.
			if (m == n-1 || m == n+1) && m/RefWidth != n/RefWidth {
				continue
			}
			visited[m] = true
			stack = append(stack, m)
		}
	}
	return len(visited) == len(cells)
}

func extraKinds(c Catalog) []string {
	var out []string
	for _, k := range c.Kinds() {
		if _, ok := rotations[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
