package floorplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerAll(t *testing.T, r *Round) {
	t.Helper()
	for _, room := range r.Plan().Rooms() {
		require.NoError(t, r.Assign(room.ID, room.Name))
	}
}

func TestNewRound(t *testing.T) {
	r := NewRound(Apartment(), NewShuffler(nil))

	assert.False(t, r.Revealed())
	assert.Empty(t, r.Assignment())
	assert.Equal(t, 1, r.Number())
	assert.ElementsMatch(t, Apartment().Names(), r.Pool())

	_, ok := r.Result()
	assert.False(t, ok)
}

func TestAssignOverwrites(t *testing.T) {
	r := NewRound(Apartment(), fixedShuffler{})

	require.NoError(t, r.Assign(1, "Kitchen"))
	require.NoError(t, r.Assign(1, "Balcony"))

	assert.Equal(t, Assignment{1: "Balcony"}, r.Assignment())
	assert.Equal(t, 1, r.Answered())
}

func TestAssignRejectsUnknownRoomAndName(t *testing.T) {
	r := NewRound(Apartment(), fixedShuffler{})

	assert.ErrorIs(t, r.Assign(42, "Kitchen"), ErrInvalidRoomID)
	assert.ErrorIs(t, r.Assign(1, "Laser Tag Arena"), ErrUnknownName)
	assert.Empty(t, r.Assignment())
}

func TestAssignAfterRevealIsNoop(t *testing.T) {
	r := NewRound(Apartment(), fixedShuffler{})
	answerAll(t, r)
	require.NoError(t, r.Assign(2, "Living Room"))
	before := r.Assignment()

	r.Reveal()

	assert.NoError(t, r.Assign(2, "Kitchen"))
	assert.NoError(t, r.Assign(42, "Kitchen"))
	assert.Equal(t, before, r.Assignment())
}

func TestIsComplete(t *testing.T) {
	r := NewRound(Apartment(), fixedShuffler{})
	assert.False(t, r.IsComplete())

	for _, room := range Apartment().Rooms()[:7] {
		require.NoError(t, r.Assign(room.ID, room.Name))
	}
	assert.False(t, r.IsComplete())

	require.NoError(t, r.Assign(8, "Kitchen"))
	assert.True(t, r.IsComplete())
}

func TestRevealIsStable(t *testing.T) {
	r := NewRound(Apartment(), fixedShuffler{})
	answerAll(t, r)

	first := r.Reveal()
	second := r.Reveal()

	assert.True(t, r.Revealed())
	assert.Equal(t, first, second)

	res, ok := r.Result()
	require.True(t, ok)
	assert.Equal(t, 8, res.Correct)
}

func TestStartResets(t *testing.T) {
	r := NewRound(Apartment(), fixedShuffler{})
	answerAll(t, r)
	r.Reveal()

	r.Start()

	assert.False(t, r.Revealed())
	assert.Empty(t, r.Assignment())
	assert.Equal(t, 2, r.Number())
	_, ok := r.Result()
	assert.False(t, ok)
}

// countingShuffler records how often a new pool is drawn.
type countingShuffler struct {
	calls int
	inner Shuffler
}

func (s *countingShuffler) Shuffle(names []string) []string {
	s.calls++
	return s.inner.Shuffle(names)
}

func TestStartReshufflesPool(t *testing.T) {
	s := &countingShuffler{inner: NewShuffler(nil)}
	c := NewController(Apartment(), s)
	assert.Equal(t, 1, s.calls)

	c.Round().Start()
	assert.Equal(t, 2, s.calls)

	c.Reset()
	assert.Equal(t, 3, s.calls)
	assert.ElementsMatch(t, Apartment().Names(), c.Round().Pool())

	_ = c.View()
	_, _ = c.Check()
	assert.Equal(t, 3, s.calls)
}

func TestPoolIsACopy(t *testing.T) {
	r := NewRound(Apartment(), fixedShuffler{})

	pool := r.Pool()
	pool[0] = "nope"

	assert.Equal(t, "The Red Door", r.Pool()[0])
}
