/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package floorplan

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrInvalidRoomID = errors.New("invalid room id")
	ErrUnknownName   = errors.New("name is not in the name pool")
)

// Assignment maps a room id to the name the player gave it.
type Assignment map[int]string

// Round is the state of one play-through: the shuffled name pool, the player's
// answers and whether the results have been revealed.
type Round struct {
	plan       *Plan
	shuffler   Shuffler
	pool       []string
	assignment Assignment
	revealed   bool
	result     *Result
	number     int
}

func NewRound(plan *Plan, shuffler Shuffler) *Round {
	r := &Round{
		plan:     plan,
		shuffler: shuffler,
	}
	r.Start()

	return r
}

// Start discards all answers, hides results and reshuffles the name pool.
func (r *Round) Start() {
	r.pool = r.shuffler.Shuffle(r.plan.Names())
	r.assignment = make(Assignment, r.plan.Len())
	r.revealed = false
	r.result = nil
	r.number++
}

// Assign sets the name for a room, replacing any earlier answer. It is a no-op
// once the round has been revealed.
func (r *Round) Assign(roomID int, name string) error {
	if r.revealed {
		return nil
	}
	if !r.plan.Has(roomID) {
		return fmt.Errorf("%w: %d", ErrInvalidRoomID, roomID)
	}
	if !slices.Contains(r.pool, name) {
		return fmt.Errorf("%w: %q", ErrUnknownName, name)
	}

	r.assignment[roomID] = name

	return nil
}

// IsComplete reports whether every room of the plan has an answer.
func (r *Round) IsComplete() bool {
	if len(r.assignment) != r.plan.Len() {
		return false
	}
	for _, room := range r.plan.rooms {
		if _, ok := r.assignment[room.ID]; !ok {
			return false
		}
	}
	return true
}

// Reveal scores the round and locks it. Later calls return the first result.
func (r *Round) Reveal() Result {
	if r.revealed {
		return *r.result
	}

	res := Score(r.plan, r.assignment)
	r.result = &res
	r.revealed = true

	return res
}

func (r *Round) Revealed() bool { return r.revealed }
func (r *Round) Number() int    { return r.number }
func (r *Round) Plan() *Plan    { return r.plan }

// Result returns the score of a revealed round.
func (r *Round) Result() (Result, bool) {
	if r.result == nil {
		return Result{}, false
	}
	return *r.result, true
}

func (r *Round) Pool() []string {
	return slices.Clone(r.pool)
}

func (r *Round) Assignment() Assignment {
	return maps.Clone(r.assignment)
}

func (r *Round) Answered() int {
	return len(r.assignment)
}
