package game

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/internal/board"
)

func TestGame_JSONRoundTrip(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		// given
		r := rand.New(rand.NewPCG(seed, 3))
		g, err := NewWithRand(r)
		require.NoError(t, err)

		cells := board.All()
		r.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
		for _, c := range cells[:r.IntN(len(cells))] {
			g.Fire(c)
		}

		// when
		data, err := json.Marshal(g)
		require.NoError(t, err)
		var back Game
		require.NoError(t, json.Unmarshal(data, &back))

		// then
		assert.Equal(t, g.ID(), back.ID())
		assert.Equal(t, g.IsOver(), back.IsOver())
		assert.Equal(t, g.Shots(), back.Shots())
		require.Len(t, back.Ships(), len(g.Ships()))
		for i, s := range g.Ships() {
			b := back.Ships()[i]
			assert.Equal(t, s.ID(), b.ID())
			assert.Equal(t, s.Type(), b.Type())
			assert.Equal(t, s.Positions(), b.Positions())
			assert.Equal(t, s.Hits(), b.Hits())
			assert.Equal(t, s.IsSunk(), b.IsSunk())
		}

		// both copies keep behaving identically
		for _, c := range board.All() {
			require.Equal(t, g.Fire(c), back.Fire(c), "seed %d cell %s", seed, c)
		}
	}
}

func TestGame_UnmarshalJSONRejectsCorruptState(t *testing.T) {
	testCases := []struct {
		Name string
		JSON string
	}{
		{
			Name: "missing id",
			JSON: `{"ships":[],"shots":[]}`,
		},
		{
			Name: "empty fleet",
			JSON: `{"id":"g","ships":[],"shots":[]}`,
		},
		{
			Name: "fleet of one destroyer",
			JSON: `{"id":"g","ships":[{"id":"s","type":"Destroyer","positions":["A1","A2","A3","A4"],"hits":[]}],"shots":[]}`,
		},
		{
			Name: "three destroyers",
			JSON: `{"id":"g","ships":[` +
				`{"id":"a","type":"Destroyer","positions":["A1","A2","A3","A4"],"hits":[]},` +
				`{"id":"b","type":"Destroyer","positions":["C1","C2","C3","C4"],"hits":[]},` +
				`{"id":"c","type":"Destroyer","positions":["E1","E2","E3","E4"],"hits":[]}],"shots":[]}`,
		},
		{
			Name: "scattered battleship",
			JSON: `{"id":"g","ships":[` +
				`{"id":"a","type":"Battleship","positions":["A1","C7","J2","E5","H9"],"hits":[]},` +
				`{"id":"b","type":"Destroyer","positions":["C3","D3","E3","F3"],"hits":[]},` +
				`{"id":"c","type":"Destroyer","positions":["J7","J8","J9","J10"],"hits":[]}],"shots":[]}`,
		},
		{
			Name: "unknown ship type",
			JSON: `{"id":"g","ships":[{"id":"s","type":"Submarine","positions":["A1","A2","A3"],"hits":[]}],"shots":[]}`,
		},
		{
			Name: "wrong ship length",
			JSON: `{"id":"g","ships":[{"id":"s","type":"Destroyer","positions":["A1","A2","A3"],"hits":[]}],"shots":[]}`,
		},
		{
			Name: "overlapping ships",
			JSON: `{"id":"g","ships":[` +
				`{"id":"a","type":"Destroyer","positions":["A1","A2","A3","A4"],"hits":[]},` +
				`{"id":"b","type":"Destroyer","positions":["A4","B4","C4","D4"],"hits":[]}],"shots":[]}`,
		},
		{
			Name: "hit outside ship",
			JSON: `{"id":"g","ships":[{"id":"s","type":"Destroyer","positions":["A1","A2","A3","A4"],"hits":["B1"]}],"shots":["B1"]}`,
		},
		{
			Name: "hit never shot",
			JSON: `{"id":"g","ships":[{"id":"s","type":"Destroyer","positions":["A1","A2","A3","A4"],"hits":["A1"]}],"shots":[]}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			var g Game
			err := json.Unmarshal([]byte(testCase.JSON), &g)
			assert.ErrorIs(t, err, ErrCorruptState)
		})
	}

	t.Run("invalid coordinate", func(t *testing.T) {
		var g Game
		err := json.Unmarshal([]byte(`{"id":"g","ships":[],"shots":["K1"]}`), &g)
		assert.ErrorIs(t, err, board.ErrInvalidCoordinate)
	})
}

func TestGame_View(t *testing.T) {
	// given
	g := newTestGame(t)
	g.Fire(mustCoord(t, "A1"))
	g.Fire(mustCoord(t, "B7"))
	for _, s := range []string{"J7", "J8", "J9", "J10"} {
		g.Fire(mustCoord(t, s))
	}

	// when
	v := g.View()

	// then
	assert.Equal(t, "test-game", v.ID)
	assert.False(t, v.IsOver)
	assert.Len(t, v.Shots, 6)
	assert.Contains(t, v.Shots, Cell{Column: "B", Row: 7})

	require.Len(t, v.Ships, 3)
	assert.Equal(t, Battleship, v.Ships[0].Type)
	assert.Equal(t, []Cell{{Column: "A", Row: 1}}, v.Ships[0].Positions)
	assert.False(t, v.Ships[0].IsSunk)

	assert.Empty(t, v.Ships[1].Positions)
	assert.NotNil(t, v.Ships[1].Positions)
	assert.False(t, v.Ships[1].IsSunk)

	assert.Len(t, v.Ships[2].Positions, 4)
	assert.True(t, v.Ships[2].IsSunk)
}
