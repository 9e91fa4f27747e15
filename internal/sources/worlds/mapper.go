package worlds

import (
	"fmt"
	"strings"
)

// World is a game server and the datacenter that hosts it.
type World struct {
	Name       string
	Datacenter string
	Region     string
}

// MapWorlds flattens the file into worlds. Blank names are skipped; a world
// listed twice keeps its first datacenter.
func MapWorlds(file *File) ([]World, error) {
	if file == nil {
		return nil, fmt.Errorf("no worlds file")
	}

	seen := make(map[string]bool)
	var worlds []World
	for _, dc := range file.Datacenters {
		dcName := strings.TrimSpace(dc.Name)
		if dcName == "" {
			continue
		}
		for _, raw := range dc.Worlds {
			name := strings.TrimSpace(raw)
			if name == "" || seen[strings.ToLower(name)] {
				continue
			}
			seen[strings.ToLower(name)] = true
			worlds = append(worlds, World{Name: name, Datacenter: dcName, Region: dc.Region})
		}
	}

	if len(worlds) == 0 {
		return nil, fmt.Errorf("no valid worlds found in worlds file")
	}
	return worlds, nil
}
