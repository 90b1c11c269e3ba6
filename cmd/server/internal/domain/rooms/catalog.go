package rooms

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Room is a static bookable space.
type Room struct {
	RoomID string `json:"roomId" yaml:"roomId"`
	Name   string `json:"name" yaml:"name"`
}

// DefaultRooms is used when no catalog file is configured.
var DefaultRooms = []Room{
	{RoomID: "Room 1", Name: "Meeting Room Bern"},
	{RoomID: "Room 2", Name: "Meeting Room Zurich"},
}

// Catalog is the fixed, read-only set of rooms served by the API.
type Catalog struct {
	rooms []Room
	index map[string]int
}

// NewCatalog builds a catalog, rejecting empty or duplicate ids.
func NewCatalog(list []Room) (*Catalog, error) {
	c := &Catalog{rooms: make([]Room, 0, len(list)), index: map[string]int{}}
	for i, r := range list {
		if r.RoomID == "" {
			return nil, fmt.Errorf("room[%d]: roomId cannot be empty", i)
		}
		if _, dup := c.index[r.RoomID]; dup {
			return nil, fmt.Errorf("room[%d]: duplicate roomId %q", i, r.RoomID)
		}
		c.index[r.RoomID] = len(c.rooms)
		c.rooms = append(c.rooms, r)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, _ := NewCatalog(DefaultRooms)
	return c
}

// LoadCatalog reads a YAML catalog of the form:
//
//	rooms:
//	  - roomId: Room 1
//	    name: Meeting Room Bern
//
// An empty path returns the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rooms file: %w", err)
	}

	var file struct {
		Rooms []Room `yaml:"rooms"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rooms file: %w", err)
	}
	if len(file.Rooms) == 0 {
		return nil, errors.New("rooms file must list at least one room")
	}

	c, err := NewCatalog(file.Rooms)
	if err != nil {
		return nil, fmt.Errorf("invalid rooms file: %w", err)
	}
	return c, nil
}

// List returns a copy of the rooms in declaration order.
func (c *Catalog) List() []Room {
	out := make([]Room, len(c.rooms))
	copy(out, c.rooms)
	return out
}

// Get looks up a room by id.
func (c *Catalog) Get(roomID string) (Room, bool) {
	i, ok := c.index[roomID]
	if !ok {
		return Room{}, false
	}
	return c.rooms[i], true
}
