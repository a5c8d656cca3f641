package layer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"blueprint/internal/errors"
)

// Record is the persisted form of one layer.
type Record struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Index   int     `json:"index"`
	Visible bool    `json:"visible"`
	Locked  bool    `json:"locked"`
	Opacity float64 `json:"opacity"`
	Color   string  `json:"color"`
}

// UnmarshalJSON fills absent visible and opacity fields with the values a new
// layer gets, so a sparse record does not load as an invisible layer.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	p := plain{Visible: true, Opacity: DefaultOpacity}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Record(p)
	return nil
}

// Snapshot is the persisted form of the whole manager. Membership is not part
// of it; shapes carry their layer id and are rebound after import.
type Snapshot struct {
	Layers         []Record `json:"layers"`
	Order          []string `json:"layerOrder"`
	ActiveLayerID  string   `json:"activeLayerId"`
	NextLayerID    int      `json:"nextLayerId"`
	DefaultLayerID string   `json:"defaultLayerId,omitempty"`
}

// Export captures layers, order, active layer and the id counter.
func (m *Manager) Export() Snapshot {
	snap := Snapshot{
		Order:          append([]string(nil), m.order...),
		ActiveLayerID:  m.activeID,
		NextLayerID:    m.nextID,
		DefaultLayerID: m.defaultID,
	}
	for _, id := range m.order {
		l := m.layers[id]
		snap.Layers = append(snap.Layers, Record{
			ID:      l.ID,
			Name:    l.Name,
			Index:   l.Index,
			Visible: l.Visible,
			Locked:  l.Locked,
			Opacity: l.Opacity,
			Color:   l.Color,
		})
	}
	return snap
}

// Import replaces the manager state with snap. Invalid snapshots leave the
// manager untouched. An empty snapshot yields a single fresh default layer.
// All shape memberships are cleared; call Rebind afterwards.
func (m *Manager) Import(snap Snapshot) error {
	if len(snap.Layers) == 0 {
		m.nextID = 0
		m.reset()
		return nil
	}

	layers := make(map[string]*Layer, len(snap.Layers))
	nextID := snap.NextLayerID
	for _, r := range snap.Layers {
		if r.ID == "" {
			return errors.NewInvalidFormat(fmt.Errorf("layer without id"))
		}
		if _, dup := layers[r.ID]; dup {
			return errors.NewInvalidFormat(fmt.Errorf("duplicate layer id %q", r.ID))
		}
		layers[r.ID] = &Layer{
			ID:      r.ID,
			Name:    r.Name,
			Index:   r.Index,
			Visible: r.Visible,
			Locked:  r.Locked,
			Opacity: clampOpacity(r.Opacity),
			Color:   r.Color,
		}
		if n, ok := idNumber(r.ID); ok && n >= nextID {
			nextID = n + 1
		}
	}

	var order []string
	seen := map[string]bool{}
	for _, id := range snap.Order {
		if _, ok := layers[id]; ok && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	var missing []*Layer
	for id, l := range layers {
		if !seen[id] {
			missing = append(missing, l)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].Index != missing[j].Index {
			return missing[i].Index < missing[j].Index
		}
		return missing[i].ID < missing[j].ID
	})
	for _, l := range missing {
		order = append(order, l.ID)
	}

	m.layers = layers
	m.order = order
	m.owner = map[string]string{}
	m.nextID = nextID
	m.activeID = snap.ActiveLayerID
	if _, ok := layers[m.activeID]; !ok {
		m.activeID = order[0]
	}
	m.defaultID = snap.DefaultLayerID
	if _, ok := layers[m.defaultID]; !ok {
		m.defaultID = order[len(order)-1]
	}
	m.renumber()
	return nil
}

func idNumber(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, "layer-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}
