package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultStartMap is the start map of a lobby file that names none.
const DefaultStartMap = "plaza"

// Lobby is the full set of maps plus the map new and defeated characters start on.
type Lobby struct {
	StartMap string
	Maps     []*Map
}

type yamlLobbyFile struct {
	StartMap string    `yaml:"start_map"`
	Maps     []yamlMap `yaml:"maps"`
}

type yamlMap struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Grid        []string     `yaml:"grid"`
	Spawn       *yamlPoint   `yaml:"spawn"`
	Dungeon     *yamlDungeon `yaml:"dungeon"`
}

type yamlPoint struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type yamlDungeon struct {
	MaxMonsters int                  `yaml:"max_monsters"`
	Monsters    []yamlDungeonMonster `yaml:"monsters"`
}

type yamlDungeonMonster struct {
	ID   string  `yaml:"id"`
	Rate float64 `yaml:"rate"`
}

// LoadLobbyFromFile reads and validates a lobby YAML file.
//
// Precondition: path must point to a valid YAML lobby file.
// Postcondition: Returns a validated Lobby or a non-nil error.
func LoadLobbyFromFile(path string) (*Lobby, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lobby file %s: %w", path, err)
	}
	return LoadLobbyFromBytes(data)
}

// LoadLobbyFromBytes parses and validates a lobby from YAML bytes.
//
// Postcondition: Returns a Lobby whose maps each pass Validate, or a non-nil error.
func LoadLobbyFromBytes(data []byte) (*Lobby, error) {
	var file yamlLobbyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing lobby YAML: %w", err)
	}
	lobby := convertYAMLLobby(file)
	for _, m := range lobby.Maps {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("validating lobby: %w", err)
		}
	}
	return lobby, nil
}

func convertYAMLLobby(yl yamlLobbyFile) *Lobby {
	lobby := &Lobby{StartMap: yl.StartMap}
	if lobby.StartMap == "" {
		lobby.StartMap = DefaultStartMap
	}
	for _, ym := range yl.Maps {
		m := &Map{
			ID:          ym.ID,
			Name:        ym.Name,
			Description: strings.TrimSpace(ym.Description),
			Grid:        ym.Grid,
		}
		if ym.Spawn != nil {
			m.Spawn = &Point{X: ym.Spawn.X, Y: ym.Spawn.Y}
		}
		if ym.Dungeon != nil {
			d := &Dungeon{MaxMonsters: ym.Dungeon.MaxMonsters}
			for _, dm := range ym.Dungeon.Monsters {
				d.Monsters = append(d.Monsters, DungeonMonster{TemplateID: dm.ID, Rate: dm.Rate})
			}
			m.Dungeon = d
		}
		lobby.Maps = append(lobby.Maps, m)
	}
	return lobby
}
