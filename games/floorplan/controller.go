/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package floorplan

import "fmt"

// Choice is one numbered entry of the name pool. Index is 1-based.
type Choice struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Prompt asks the player to pick a name for a room.
type Prompt struct {
	RoomID  int      `json:"room_id"`
	Choices []Choice `json:"choices"`
}

// Prompter is a presenter that blocks until the player answers a prompt.
// ok is false when the player cancelled.
type Prompter interface {
	Prompt(p Prompt) (index int, ok bool)
}

// Controller drives a single quiz session. It is not safe for concurrent use;
// its owner serializes calls.
type Controller struct {
	round *Round
}

func NewController(plan *Plan, shuffler Shuffler) *Controller {
	return &Controller{round: NewRound(plan, shuffler)}
}

func (c *Controller) Round() *Round { return c.round }

// SelectRoom returns the prompt for naming a room, or nil if the round is
// already revealed.
func (c *Controller) SelectRoom(roomID int) (*Prompt, error) {
	if c.round.revealed {
		return nil, nil
	}
	if !c.round.plan.Has(roomID) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRoomID, roomID)
	}

	choices := make([]Choice, len(c.round.pool))
	for i, name := range c.round.pool {
		choices[i] = Choice{Index: i + 1, Name: name}
	}

	return &Prompt{RoomID: roomID, Choices: choices}, nil
}

// Choose applies the 1-based pool entry index to a room. Out-of-range choices
// and choices made after reveal are ignored and report false.
func (c *Controller) Choose(roomID, index int) (bool, error) {
	if c.round.revealed {
		return false, nil
	}
	if !c.round.plan.Has(roomID) {
		return false, fmt.Errorf("%w: %d", ErrInvalidRoomID, roomID)
	}
	if index < 1 || index > len(c.round.pool) {
		return false, nil
	}

	if err := c.round.Assign(roomID, c.round.pool[index-1]); err != nil {
		return false, err
	}

	return true, nil
}

// HandleSelect runs a full selection through a blocking presenter.
func (c *Controller) HandleSelect(roomID int, p Prompter) (bool, error) {
	prompt, err := c.SelectRoom(roomID)
	if err != nil || prompt == nil {
		return false, err
	}

	index, ok := p.Prompt(*prompt)
	if !ok {
		return false, nil
	}

	return c.Choose(roomID, index)
}

// Check scores and reveals a complete round. It reports false, and changes
// nothing, while rooms are still unanswered.
func (c *Controller) Check() (Result, bool) {
	if c.round.revealed {
		res, _ := c.round.Result()
		return res, true
	}
	if !c.round.IsComplete() {
		return Result{}, false
	}

	return c.round.Reveal(), true
}

// Reset starts a fresh round with a new shuffle.
func (c *Controller) Reset() {
	c.round.Start()
}
