package qr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrixValidation(t *testing.T) {
	square := func(n int) [][]bool {
		rows := make([][]bool, n)
		for i := range rows {
			rows[i] = make([]bool, n)
		}
		return rows
	}

	_, err := NewMatrix(square(20), LevelM)
	assert.ErrorIs(t, err, ErrInvalidMatrix)
	_, err = NewMatrix(square(19), LevelM)
	assert.ErrorIs(t, err, ErrInvalidMatrix)
	_, err = NewMatrix(square(21), Level(9))
	assert.ErrorIs(t, err, ErrInvalidMatrix)

	ragged := square(21)
	ragged[4] = ragged[4][:20]
	_, err = NewMatrix(ragged, LevelM)
	assert.ErrorIs(t, err, ErrInvalidMatrix)

	_, err = NewMatrix(square(21), LevelH)
	assert.ErrorIs(t, err, ErrInvalidMatrix)

	rows := square(21)
	stampFinder(rows, 0, 0)
	stampFinder(rows, 0, 14)
	stampFinder(rows, 14, 0)
	m, err := NewMatrix(rows, LevelH)
	require.NoError(t, err)
	assert.Equal(t, 21, m.Size())
	assert.Equal(t, LevelH, m.Level())

	// One flipped module in any finder zone is rejected.
	for _, c := range []Coord{{0, 0}, {3, 3}, {1, 1}, {0, 20}, {17, 4}} {
		bad := square(21)
		for i := range rows {
			copy(bad[i], rows[i])
		}
		bad[c.Row][c.Col] = !bad[c.Row][c.Col]
		_, err = NewMatrix(bad, LevelH)
		assert.ErrorIs(t, err, ErrInvalidMatrix, "flipped %v", c)
	}
}

func TestMatrixFinderZone(t *testing.T) {
	m := syntheticMatrix(t, 25, LevelM)
	assert.True(t, m.InFinderZone(0, 0))
	assert.True(t, m.InFinderZone(6, 6))
	assert.True(t, m.InFinderZone(0, 18))
	assert.True(t, m.InFinderZone(18, 6))
	assert.False(t, m.InFinderZone(7, 7))
	assert.False(t, m.InFinderZone(18, 18))
	assert.False(t, m.InFinderZone(-1, 0))
	assert.Equal(t, [3]Coord{{0, 0}, {0, 18}, {18, 0}}, m.FinderOrigins())
}

func TestMatrixModule(t *testing.T) {
	m := syntheticMatrix(t, 21, LevelM, Coord{10, 10}, Coord{10, 11}, Coord{11, 11})
	mod := m.Module(10, 10)
	assert.True(t, mod.Dark)
	assert.False(t, mod.InFinderZone)
	assert.Equal(t, 1, mod.Neighbors4)
	assert.Equal(t, 2, mod.Neighbors8)
	assert.False(t, m.Dark(-1, 3))
	assert.False(t, m.Dark(3, 21))
}

func assertFinder(t *testing.T, m *Matrix, o Coord) {
	t.Helper()
	for r := 0; r < finderSize; r++ {
		for c := 0; c < finderSize; c++ {
			ring := r == 0 || c == 0 || r == finderSize-1 || c == finderSize-1
			core := r >= 2 && r <= 4 && c >= 2 && c <= 4
			assert.Equal(t, ring || core, m.Dark(o.Row+r, o.Col+c), "finder %v module (%d,%d)", o, r, c)
		}
	}
}

func TestProviders(t *testing.T) {
	providers := map[string]MatrixProvider{
		"skip2":  Skip2Provider{},
		"yeqown": YeqownProvider{},
	}
	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			for _, level := range []Level{LevelL, LevelM, LevelQ, LevelH} {
				m, err := p.Encode([]byte("https://track.example/PKG-0001"), level)
				require.NoError(t, err, level.String())
				assert.GreaterOrEqual(t, m.Size(), 21)
				assert.Equal(t, 1, m.Size()%4, "side is 17+4v")
				assert.Equal(t, level, m.Level())
				for _, o := range m.FinderOrigins() {
					assertFinder(t, m, o)
				}
			}
		})
	}
}

func TestProviderErrors(t *testing.T) {
	for _, p := range []MatrixProvider{Skip2Provider{}, YeqownProvider{}} {
		_, err := p.Encode(nil, LevelM)
		assert.ErrorIs(t, err, ErrEncoding)
		_, err = p.Encode([]byte(strings.Repeat("x", 4000)), LevelH)
		assert.ErrorIs(t, err, ErrEncoding)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"L": LevelL, "m": LevelM, "quartile": LevelQ, " H ": LevelH, "highest": LevelH} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("x")
	assert.Error(t, err)
}
