/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package floorplan

const (
	StatusCorrect   = "correct"
	StatusIncorrect = "incorrect"
)

// RoomView is what a presenter draws for one room. Label holds the player's
// answer until reveal; after reveal Label is empty and Answer holds the truth.
type RoomView struct {
	ID     int    `json:"id"`
	Box    Box    `json:"box"`
	Label  string `json:"label,omitempty"`
	Answer string `json:"answer,omitempty"`
	Status string `json:"status,omitempty"`
}

type ScoreView struct {
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Tier    Tier   `json:"tier"`
	Message string `json:"message"`
}

type View struct {
	Title      string     `json:"title"`
	Difficulty string     `json:"difficulty"`
	Round      int        `json:"round"`
	Rooms      []RoomView `json:"rooms"`
	Pool       []Choice   `json:"pool"`
	Answered   int        `json:"answered"`
	Total      int        `json:"total"`
	CanCheck   bool       `json:"can_check"`
	Revealed   bool       `json:"revealed"`
	Score      *ScoreView `json:"score,omitempty"`
}

func (c *Controller) View() View {
	r := c.round

	v := View{
		Title:      r.plan.title,
		Difficulty: r.plan.difficulty,
		Round:      r.number,
		Rooms:      make([]RoomView, 0, r.plan.Len()),
		Pool:       make([]Choice, len(r.pool)),
		Answered:   len(r.assignment),
		Total:      r.plan.Len(),
		CanCheck:   !r.revealed && r.IsComplete(),
		Revealed:   r.revealed,
	}

	for i, name := range r.pool {
		v.Pool[i] = Choice{Index: i + 1, Name: name}
	}

	for _, room := range r.plan.rooms {
		rv := RoomView{ID: room.ID, Box: room.Box}

		if r.revealed {
			rv.Answer = room.Name
			rv.Status = StatusIncorrect
			if r.result.PerRoom[room.ID] {
				rv.Status = StatusCorrect
			}
		} else {
			rv.Label = r.assignment[room.ID]
		}

		v.Rooms = append(v.Rooms, rv)
	}

	if r.revealed {
		tier := r.result.Tier()
		v.Score = &ScoreView{
			Correct: r.result.Correct,
			Total:   r.result.Total,
			Tier:    tier,
			Message: tier.Message(),
		}
	}

	return v
}
