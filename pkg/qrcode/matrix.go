package qr

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
	yqr "github.com/yeqown/go-qrcode/v2"
)

// Level is the error correction level of a symbol.
type Level int

const (
	LevelL Level = iota
	LevelM
	LevelQ
	LevelH
)

func (l Level) String() string {
	switch l {
	case LevelL:
		return "L"
	case LevelM:
		return "M"
	case LevelQ:
		return "Q"
	case LevelH:
		return "H"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

func (l Level) valid() bool {
	return l >= LevelL && l <= LevelH
}

// ParseLevel accepts the single letter names as well as low/medium/quartile/high.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return LevelL, nil
	case "m", "medium":
		return LevelM, nil
	case "q", "quartile":
		return LevelQ, nil
	case "h", "high", "highest":
		return LevelH, nil
	}
	return 0, fmt.Errorf("unknown error correction level %q", s)
}

const (
	minMatrixSize = 21
	finderSize    = 7
)

// Coord addresses one module of a matrix.
type Coord struct {
	Row, Col int
}

// Matrix is the immutable dark/light grid of a symbol, without quiet zone.
type Matrix struct {
	size  int
	bits  []bool
	level Level
}

// NewMatrix copies rows into a new Matrix. The grid must be square with an odd
// side of at least 21 modules and carry the three finder patterns.
func NewMatrix(rows [][]bool, level Level) (*Matrix, error) {
	n := len(rows)
	if n < minMatrixSize || n%2 == 0 {
		return nil, fmt.Errorf("%w: side %d", ErrInvalidMatrix, n)
	}
	if !level.valid() {
		return nil, fmt.Errorf("%w: level %s", ErrInvalidMatrix, level)
	}
	bits := make([]bool, n*n)
	for r, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d modules, want %d", ErrInvalidMatrix, r, len(row), n)
		}
		copy(bits[r*n:], row)
	}
	m := &Matrix{size: n, bits: bits, level: level}
	for _, o := range m.FinderOrigins() {
		if !m.hasFinder(o) {
			return nil, fmt.Errorf("%w: no finder pattern at (%d,%d)", ErrInvalidMatrix, o.Row, o.Col)
		}
	}
	return m, nil
}

// hasFinder reports whether the 7x7 zone at o holds the dark ring, light
// ring and 3x3 dark core of a finder pattern. The renderer redraws these
// zones without looking at their bits.
func (m *Matrix) hasFinder(o Coord) bool {
	for r := 0; r < finderSize; r++ {
		for c := 0; c < finderSize; c++ {
			ring := r == 0 || c == 0 || r == finderSize-1 || c == finderSize-1
			core := r >= 2 && r <= 4 && c >= 2 && c <= 4
			if m.Dark(o.Row+r, o.Col+c) != (ring || core) {
				return false
			}
		}
	}
	return true
}

func (m *Matrix) Size() int    { return m.size }
func (m *Matrix) Level() Level { return m.level }

// Dark reports whether the module is dark. Out of range modules are light.
func (m *Matrix) Dark(row, col int) bool {
	if row < 0 || col < 0 || row >= m.size || col >= m.size {
		return false
	}
	return m.bits[row*m.size+col]
}

// InFinderZone reports whether the module lies in one of the three 7x7
// finder zones at (0,0), (0,N-7) and (N-7,0).
func (m *Matrix) InFinderZone(row, col int) bool {
	if row < 0 || col < 0 || row >= m.size || col >= m.size {
		return false
	}
	top := row < finderSize
	left := col < finderSize
	bottom := row >= m.size-finderSize
	right := col >= m.size-finderSize
	return (top && left) || (top && right) || (bottom && left)
}

// FinderOrigins returns the top-left module of each finder zone.
func (m *Matrix) FinderOrigins() [3]Coord {
	return [3]Coord{{0, 0}, {0, m.size - finderSize}, {m.size - finderSize, 0}}
}

// Module describes one cell and its neighbourhood.
type Module struct {
	Coord
	Dark         bool
	InFinderZone bool
	Neighbors4   int
	Neighbors8   int
}

func (m *Matrix) Module(row, col int) Module {
	mod := Module{
		Coord:        Coord{row, col},
		Dark:         m.Dark(row, col),
		InFinderZone: m.InFinderZone(row, col),
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if (dr == 0 && dc == 0) || !m.Dark(row+dr, col+dc) {
				continue
			}
			mod.Neighbors8++
			if dr == 0 || dc == 0 {
				mod.Neighbors4++
			}
		}
	}
	return mod
}

// MatrixProvider turns a payload into a matrix at the requested level.
type MatrixProvider interface {
	Encode(payload []byte, level Level) (*Matrix, error)
}

// Skip2Provider encodes with github.com/skip2/go-qrcode.
type Skip2Provider struct{}

func (Skip2Provider) Encode(payload []byte, level Level) (*Matrix, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrEncoding)
	}
	q, err := qrcode.New(string(payload), skip2Level(level))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	q.DisableBorder = true
	return NewMatrix(trimQuietZone(q.Bitmap()), level)
}

func skip2Level(l Level) qrcode.RecoveryLevel {
	switch l {
	case LevelL:
		return qrcode.Low
	case LevelM:
		return qrcode.Medium
	case LevelQ:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}

// YeqownProvider encodes with github.com/yeqown/go-qrcode/v2.
type YeqownProvider struct{}

func (YeqownProvider) Encode(payload []byte, level Level) (*Matrix, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrEncoding)
	}
	var (
		qrc *yqr.QRCode
		err error
	)
	content := string(payload)
	switch level {
	case LevelL:
		qrc, err = yqr.NewWith(content, yqr.WithErrorCorrectionLevel(yqr.ErrorCorrectionLow))
	case LevelM:
		qrc, err = yqr.NewWith(content, yqr.WithErrorCorrectionLevel(yqr.ErrorCorrectionMedium))
	case LevelQ:
		qrc, err = yqr.NewWith(content, yqr.WithErrorCorrectionLevel(yqr.ErrorCorrectionQuart))
	default:
		qrc, err = yqr.NewWith(content, yqr.WithErrorCorrectionLevel(yqr.ErrorCorrectionHighest))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	w := &matrixWriter{}
	if err = qrc.Save(w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return NewMatrix(w.rows, level)
}

// matrixWriter captures the matrix handed to a yeqown writer.
type matrixWriter struct {
	rows [][]bool
}

func (w *matrixWriter) Write(mat yqr.Matrix) error {
	rows := make([][]bool, mat.Height())
	for i := range rows {
		rows[i] = make([]bool, mat.Width())
	}
	mat.Iterate(yqr.IterDirection_ROW, func(x, y int, v yqr.QRValue) {
		rows[y][x] = v.IsSet()
	})
	w.rows = trimQuietZone(rows)
	return nil
}

func (w *matrixWriter) Close() error { return nil }

// trimQuietZone strips all-light outer rings. The finder patterns guarantee
// that the outermost ring of a symbol has dark modules.
func trimQuietZone(rows [][]bool) [][]bool {
	for len(rows) > 2 && outerRingLight(rows) {
		n := len(rows)
		inner := make([][]bool, n-2)
		for i := range inner {
			inner[i] = rows[i+1][1 : n-1]
		}
		rows = inner
	}
	return rows
}

func outerRingLight(rows [][]bool) bool {
	n := len(rows)
	for _, row := range rows {
		if len(row) != n {
			return false
		}
	}
	for i := 0; i < n; i++ {
		if rows[0][i] || rows[n-1][i] || rows[i][0] || rows[i][n-1] {
			return false
		}
	}
	return true
}
