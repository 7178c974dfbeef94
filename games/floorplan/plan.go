/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package floorplan

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrEmptyPlan         = errors.New("floor plan has no rooms")
	ErrDuplicateRoomID   = errors.New("duplicate room id")
	ErrDuplicateRoomName = errors.New("duplicate room name")
	ErrInvalidRoom       = errors.New("invalid room")
)

// Box is a room's bounding box in diagram units.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the box, used to anchor labels.
func (b Box) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

type Room struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Box  Box    `json:"box"`
}

// Plan is an immutable floor plan. Callers only ever receive copies of its rooms.
type Plan struct {
	title      string
	difficulty string
	rooms      []Room
	index      map[int]int
}

func NewPlan(title, difficulty string, rooms []Room) (*Plan, error) {
	if len(rooms) == 0 {
		return nil, ErrEmptyPlan
	}

	p := &Plan{
		title:      title,
		difficulty: difficulty,
		rooms:      make([]Room, len(rooms)),
		index:      make(map[int]int, len(rooms)),
	}
	copy(p.rooms, rooms)

	names := make(map[string]bool, len(rooms))
	for i, r := range p.rooms {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("%w: room %d has no name", ErrInvalidRoom, r.ID)
		}
		if r.Box.Width <= 0 || r.Box.Height <= 0 {
			return nil, fmt.Errorf("%w: room %d has an empty bounding box", ErrInvalidRoom, r.ID)
		}
		if _, ok := p.index[r.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateRoomID, r.ID)
		}
		if names[r.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRoomName, r.Name)
		}
		p.index[r.ID] = i
		names[r.Name] = true
	}

	return p, nil
}

func (p *Plan) Title() string      { return p.title }
func (p *Plan) Difficulty() string { return p.difficulty }
func (p *Plan) Len() int           { return len(p.rooms) }

// Rooms returns the rooms in declaration order.
func (p *Plan) Rooms() []Room {
	out := make([]Room, len(p.rooms))
	copy(out, p.rooms)
	return out
}

func (p *Plan) Room(id int) (Room, bool) {
	i, ok := p.index[id]
	if !ok {
		return Room{}, false
	}
	return p.rooms[i], true
}

func (p *Plan) Has(id int) bool {
	_, ok := p.index[id]
	return ok
}

// Names returns every room name in declaration order.
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.rooms))
	for _, r := range p.rooms {
		names = append(names, r.Name)
	}
	return names
}

var apartment = sync.OnceValue(func() *Plan {
	p, err := NewPlan("Ted & Marshall's Apartment", "Medium", []Room{
		{ID: 1, Name: "Living Room", Box: Box{X: 25, Y: 35, Width: 35, Height: 30}},
		{ID: 2, Name: "Kitchen", Box: Box{X: 60, Y: 35, Width: 20, Height: 25}},
		{ID: 3, Name: "Ted's Bedroom", Box: Box{X: 15, Y: 10, Width: 20, Height: 25}},
		{ID: 4, Name: "Marshall's Bedroom", Box: Box{X: 35, Y: 10, Width: 20, Height: 25}},
		{ID: 5, Name: "Bathroom", Box: Box{X: 55, Y: 10, Width: 15, Height: 15}},
		{ID: 6, Name: "Entry/Hallway", Box: Box{X: 15, Y: 65, Width: 20, Height: 15}},
		{ID: 7, Name: "Balcony", Box: Box{X: 60, Y: 60, Width: 20, Height: 20}},
		{ID: 8, Name: "The Red Door", Box: Box{X: 15, Y: 80, Width: 10, Height: 8}},
	})
	if err != nil {
		panic("floorplan: invalid built-in plan: " + err.Error())
	}
	return p
})

// Apartment returns the built-in eight room plan. Every call returns the same plan.
func Apartment() *Plan {
	return apartment()
}
