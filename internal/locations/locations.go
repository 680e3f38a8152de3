// Package locations holds the read-only directory of playable cities.
package locations

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/playperu/newsmap/internal/newsmap"
)

//go:embed data/locations.json
var defaultData embed.FS

// Directory is an immutable id-indexed set of locations. It is safe for
// concurrent use because nothing mutates it after construction.
type Directory struct {
	list []newsmap.Location
	byID map[string]int
}

func New(locs []newsmap.Location) (*Directory, error) {
	d := &Directory{
		list: make([]newsmap.Location, 0, len(locs)),
		byID: make(map[string]int, len(locs)),
	}
	for _, l := range locs {
		if l.ID == "" {
			return nil, errors.New("location without id")
		}
		if _, dup := d.byID[l.ID]; dup {
			return nil, fmt.Errorf("duplicate location id %q", l.ID)
		}
		if l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180 {
			return nil, fmt.Errorf("location %q: coordinates out of range", l.ID)
		}
		d.byID[l.ID] = len(d.list)
		d.list = append(d.list, l)
	}
	return d, nil
}

// Load reads a JSON array of locations from path. An empty path loads the
// dataset compiled into the binary.
func Load(path string) (*Directory, error) {
	var (
		f   io.ReadCloser
		err error
	)
	if path == "" {
		f, err = defaultData.Open("data/locations.json")
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening locations: %w", err)
	}
	defer f.Close()

	return Read(f)
}

func Read(r io.Reader) (*Directory, error) {
	var locs []newsmap.Location
	if err := json.NewDecoder(r).Decode(&locs); err != nil {
		return nil, fmt.Errorf("decoding locations: %w", err)
	}
	return New(locs)
}

// All returns a copy of every location in dataset order.
func (d *Directory) All() []newsmap.Location {
	out := make([]newsmap.Location, len(d.list))
	copy(out, d.list)
	return out
}

func (d *Directory) ByID(id string) (newsmap.Location, bool) {
	i, ok := d.byID[id]
	if !ok {
		return newsmap.Location{}, false
	}
	return d.list[i], true
}

func (d *Directory) Len() int { return len(d.list) }

// Check reports an error when the directory is empty. It satisfies
// health.Checker.
func (d *Directory) Check(_ context.Context) error {
	if len(d.list) == 0 {
		return errors.New("no locations loaded")
	}
	return nil
}
