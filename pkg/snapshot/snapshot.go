// Package snapshot provides the serialized form of a computed layout.
//
// A Snapshot captures everything the embedding layers need about one layout
// state: grid dimensions, every pane's placement and attachment state, and
// the manifest it came from. It is the wire format of the preview server,
// the document stored by session backends, and the output of
// "dockgrid layout --output".
//
// The core engine never serializes itself; snapshots are built from its
// outputs by the callers that need persistence.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dockgrid/dockgrid/pkg/grid"
	"github.com/dockgrid/dockgrid/pkg/layout"
)

// Attachment states as serialized.
const (
	StateAttached = "attached"
	StateDetached = "detached"
)

// Rect is the serialized form of a placement rectangle.
type Rect struct {
	Row     int `json:"row" bson:"row"`
	Col     int `json:"col" bson:"col"`
	RowSpan int `json:"row_span" bson:"row_span"`
	ColSpan int `json:"col_span" bson:"col_span"`
}

// Pane is one pane's state within a snapshot. Detached panes have no
// placement rectangle.
type Pane struct {
	Name  string `json:"name" bson:"name"`
	State string `json:"state" bson:"state"`
	Rect  *Rect  `json:"rect,omitempty" bson:"rect,omitempty"`
}

// Snapshot is the serialized form of a computed layout.
type Snapshot struct {
	// Manifest identification
	Manifest     string `json:"manifest,omitempty" bson:"manifest,omitempty"`
	ManifestHash string `json:"manifest_hash,omitempty" bson:"manifest_hash,omitempty"`

	// Grid dimensions
	Rows int `json:"rows" bson:"rows"`
	Cols int `json:"cols" bson:"cols"`

	// Per-pane state, in row-major seed order.
	Panes []Pane `json:"panes" bson:"panes"`

	// Detached pane names, in row-major seed order.
	Detached []string `json:"detached,omitempty" bson:"detached,omitempty"`
}

// Capture builds a snapshot from an engine's current state.
func Capture(e *layout.Engine, manifestName, manifestHash string) Snapshot {
	def := e.Definition()
	placements := e.Placements()

	s := Snapshot{
		Manifest:     manifestName,
		ManifestHash: manifestHash,
		Rows:         def.Rows(),
		Cols:         def.Cols(),
		Detached:     e.Detached(),
	}

	detached := make(map[string]bool, len(s.Detached))
	for _, pane := range s.Detached {
		detached[pane] = true
	}

	for _, pane := range def.Panes() {
		p := Pane{Name: pane, State: StateAttached}
		if detached[pane] {
			p.State = StateDetached
		} else if r, ok := placements[pane]; ok {
			p.Rect = &Rect{Row: r.Row, Col: r.Col, RowSpan: r.RowSpan, ColSpan: r.ColSpan}
		}
		s.Panes = append(s.Panes, p)
	}
	return s
}

// Placements converts the snapshot's attached panes back to a placement
// map, the inverse of [Capture] for the renderable part of the state.
func (s Snapshot) Placements() map[string]grid.Rect {
	out := make(map[string]grid.Rect, len(s.Panes))
	for _, p := range s.Panes {
		if p.Rect == nil {
			continue
		}
		out[p.Name] = grid.Rect{Row: p.Rect.Row, Col: p.Rect.Col, RowSpan: p.Rect.RowSpan, ColSpan: p.Rect.ColSpan}
	}
	return out
}

// Marshal serializes a Snapshot to pretty-printed JSON bytes.
func Marshal(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Snapshot.
// Validates that the grid dimensions and pane list are present.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if s.Rows <= 0 || s.Cols <= 0 {
		return Snapshot{}, fmt.Errorf("snapshot must contain grid dimensions")
	}
	if len(s.Panes) == 0 {
		return Snapshot{}, fmt.Errorf("snapshot must contain panes")
	}
	return s, nil
}

// WriteFile writes a Snapshot to a JSON file.
func WriteFile(s Snapshot, path string) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Snapshot from a JSON file.
func ReadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
