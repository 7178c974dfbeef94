package main

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/Seednode/floorplan/games/floorplan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController() *floorplan.Controller {
	return floorplan.NewController(floorplan.Apartment(), floorplan.NewShuffler(rand.NewPCG(11, 13)))
}

// answerLines returns the terminal input that names every room correctly.
func answerLines(ctrl *floorplan.Controller) string {
	pool := ctrl.Round().Pool()

	var b strings.Builder
	for _, room := range floorplan.Apartment().Rooms() {
		fmt.Fprintf(&b, "%d\n%d\n", room.ID, slices.Index(pool, room.Name)+1)
	}
	return b.String()
}

func TestPlayPerfectRound(t *testing.T) {
	ctrl := newTestController()
	input := answerLines(ctrl) + "c\nq\n"

	var out bytes.Buffer
	err := play(testConfig(), ctrl, newTerminal(strings.NewReader(input), &out))
	require.NoError(t, err)

	assert.True(t, ctrl.Round().Revealed())
	assert.Contains(t, out.String(), "Select room name for room 8:")
	assert.Contains(t, out.String(), "Answered: 8/8")
	assert.Contains(t, out.String(), "Score: 8/8")
	assert.Contains(t, out.String(), floorplan.TierPerfect.Message())
}

func TestPlayIgnoresBadInput(t *testing.T) {
	ctrl := newTestController()
	input := strings.Join([]string{
		"x",
		"42",
		"1", "",
		"1", "99",
		"1", "one",
		"c",
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, play(testConfig(), ctrl, newTerminal(strings.NewReader(input), &out)))

	assert.Empty(t, ctrl.Round().Assignment())
	assert.False(t, ctrl.Round().Revealed())
	assert.NotContains(t, out.String(), "Score:")
}

func TestPlayLocksAfterCheckUntilReset(t *testing.T) {
	ctrl := newTestController()
	input := answerLines(ctrl) + "c\n1\n1\nr\n"

	var out bytes.Buffer
	require.NoError(t, play(testConfig(), ctrl, newTerminal(strings.NewReader(input), &out)))

	assert.False(t, ctrl.Round().Revealed())
	assert.Empty(t, ctrl.Round().Assignment())
	assert.Equal(t, 2, ctrl.Round().Number())
	assert.Equal(t, 8, strings.Count(out.String(), "Select room name"))
}

func TestTerminalPrompt(t *testing.T) {
	var out bytes.Buffer
	term := newTerminal(strings.NewReader("2\n"), &out)

	index, ok := term.Prompt(floorplan.Prompt{
		RoomID: 5,
		Choices: []floorplan.Choice{
			{Index: 1, Name: "Kitchen"},
			{Index: 2, Name: "Bathroom"},
		},
	})

	assert.True(t, ok)
	assert.Equal(t, 2, index)
	assert.Contains(t, out.String(), "1. Kitchen\n2. Bathroom\n")
	assert.Contains(t, out.String(), "Enter the number (1-2)")

	_, ok = term.Prompt(floorplan.Prompt{RoomID: 5})
	assert.False(t, ok)
}
