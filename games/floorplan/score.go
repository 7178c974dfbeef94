/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package floorplan

import "fmt"

// Tier buckets a score for feedback text only.
type Tier int

const (
	TierNeedsImprovement Tier = iota
	TierNearPerfect
	TierPerfect
)

func (t Tier) String() string {
	switch t {
	case TierPerfect:
		return "perfect"
	case TierNearPerfect:
		return "near-perfect"
	default:
		return "needs-improvement"
	}
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	switch string(text) {
	case "perfect":
		*t = TierPerfect
	case "near-perfect":
		*t = TierNearPerfect
	case "needs-improvement":
		*t = TierNeedsImprovement
	default:
		return fmt.Errorf("unknown tier %q", text)
	}
	return nil
}

// Message is the feedback shown to the player once results are revealed.
func (t Tier) Message() string {
	switch t {
	case TierPerfect:
		return "Legendary! You know this apartment better than the Mosby Boys!"
	case TierNearPerfect:
		return "Suit up! You almost nailed it!"
	default:
		return "Time to rewatch the series at MacLaren's!"
	}
}

// ClassifyTier places total-2 itself in the near-perfect tier.
func ClassifyTier(correct, total int) Tier {
	switch {
	case correct == total:
		return TierPerfect
	case correct >= total-2:
		return TierNearPerfect
	default:
		return TierNeedsImprovement
	}
}

type Result struct {
	Correct int          `json:"correct"`
	Total   int          `json:"total"`
	PerRoom map[int]bool `json:"per_room"`
}

func (r Result) Tier() Tier {
	return ClassifyTier(r.Correct, r.Total)
}

// Score compares an assignment against the plan. Missing answers are wrong.
func Score(plan *Plan, a Assignment) Result {
	res := Result{
		Total:   plan.Len(),
		PerRoom: make(map[int]bool, plan.Len()),
	}

	for _, room := range plan.rooms {
		name, ok := a[room.ID]
		correct := ok && name == room.Name
		res.PerRoom[room.ID] = correct
		if correct {
			res.Correct++
		}
	}

	return res
}
