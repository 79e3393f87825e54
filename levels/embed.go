package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

type Level struct {
	Name   string     `json:"name"`
	Spawn  [3]float64 `json:"spawn"`
	Layers []string   `json:"layers"`
	Boxes  []Box      `json:"boxes"`
}

// Box is an axis-aligned solid given by two corners.
type Box struct {
	Min   [3]float64 `json:"min"`
	Max   [3]float64 `json:"max"`
	Layer string     `json:"layer,omitempty"`
}

// LayerBit returns the mask bit of a named layer. Unknown and empty names
// map to the first layer.
func (l *Level) LayerBit(name string) uint {
	if l == nil {
		return 1
	}
	for i, layer := range l.Layers {
		if layer == name {
			return 1 << uint(i)
		}
	}
	return 1
}

// Mask ORs the bits of the named layers.
func (l *Level) Mask(names ...string) uint {
	var mask uint
	for _, name := range names {
		mask |= l.LayerBit(strings.TrimSpace(name))
	}
	return mask
}

func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	return &lvl, nil
}
