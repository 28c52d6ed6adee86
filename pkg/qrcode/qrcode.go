package qr

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// Ladder rungs, from the richest output down to the bare payload.
const (
	StrategyOrganic       = "organic"
	StrategyOrganicNoLogo = "organic-no-logo"
	StrategyOrganicFlat   = "organic-flat"
	StrategyThermal       = "thermal"
	StrategyThermalNoLogo = "thermal-no-logo"
	StrategyPlain         = "plain"
	StrategyText          = "text"
)

// Result is the outcome of a render. When every image strategy failed,
// Image is nil, Strategy is StrategyText and Payload is all the caller has.
type Result struct {
	Image      []byte
	Format     Format
	Width      int
	Height     int
	MatrixSize int
	Level      Level
	Payload    string
	Strategy   string
	Degraded   bool
	Warnings   []error
}

func (r *Result) DataURI() string {
	if r.Image == nil {
		return ""
	}
	return DataURI(r.Image, r.Format)
}

// Renderer turns payloads into styled symbols. It holds no per-render state
// and is safe for concurrent use.
type Renderer struct {
	provider MatrixProvider
	log      *zap.SugaredLogger
}

func NewRenderer(provider MatrixProvider, log *zap.SugaredLogger) *Renderer {
	if provider == nil {
		provider = Skip2Provider{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Renderer{provider: provider, log: log}
}

// Render encodes payload and renders the matrix. Only invalid options and
// payloads that cannot be encoded are returned as errors.
func (r *Renderer) Render(payload []byte, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m, err := r.provider.Encode(payload, opts.Level)
	if err != nil {
		if !errors.Is(err, ErrEncoding) {
			err = fmt.Errorf("%w: %w", ErrEncoding, err)
		}
		return nil, err
	}
	return r.RenderMatrix(m, string(payload), opts)
}

// RenderMatrix renders an already encoded matrix. payload is only carried
// into the result.
func (r *Renderer) RenderMatrix(m *Matrix, payload string, opts Options) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrInvalidMatrix)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := opts.checkCanvas(m.Size()); err != nil {
		return nil, err
	}

	j := newJob(m, opts)
	j.prepareLogo()
	for _, w := range j.warnings {
		r.log.Warnw("render warning", "payload", payload, "error", w)
	}

	res := &Result{
		MatrixSize: m.Size(),
		Level:      m.Level(),
		Payload:    payload,
	}
	for _, st := range j.ladder() {
		img, err := j.run(st)
		var data []byte
		if err == nil {
			data, err = Encode(img, opts.outputFormat())
		}
		if err != nil {
			w := fmt.Errorf("%w: %s: %w", ErrRenderDegraded, st.name, err)
			r.log.Warnw("render strategy failed", "strategy", st.name, "error", err)
			j.warnings = append(j.warnings, w)
			res.Degraded = true
			continue
		}
		res.Image = data
		res.Format = opts.outputFormat()
		res.Width, res.Height = j.g.Side, j.g.Side
		res.Strategy = st.name
		res.Warnings = j.warnings
		r.log.Debugw("render finished", "strategy", st.name, "size", m.Size(), "bytes", len(data), "degraded", res.Degraded)
		return res, nil
	}

	r.log.Warnw("render fell back to text", "payload", payload)
	res.Strategy = StrategyText
	res.Degraded = true
	res.Warnings = j.warnings
	return res, nil
}

type strategyKind int

const (
	kindOrganic strategyKind = iota
	kindThermal
	kindPlain
)

type strategy struct {
	name     string
	kind     strategyKind
	logo     bool
	gradient bool
}

// job is the state of a single render.
type job struct {
	m    *Matrix
	opts Options
	g    Layout

	clusters []Cluster
	contours []Contour

	logo     image.Image
	patch    logoPatch
	hasPatch bool

	warnings []error
}

func newJob(m *Matrix, opts Options) *job {
	return &job{
		m:    m,
		opts: opts,
		g:    NewLayout(m.Size(), opts.ModuleSize, opts.BorderSize),
	}
}

// ladder lists the strategies to try. Rungs that would draw the same thing
// as an earlier rung are left out.
func (j *job) ladder() []strategy {
	logo := j.hasPatch
	grad := j.opts.Gradient != nil && !j.opts.Monochrome
	var all []strategy
	if j.opts.Monochrome {
		all = []strategy{
			{name: StrategyThermal, kind: kindThermal, logo: logo},
			{name: StrategyThermalNoLogo, kind: kindThermal},
			{name: StrategyPlain, kind: kindPlain},
		}
	} else {
		all = []strategy{
			{name: StrategyOrganic, kind: kindOrganic, logo: logo, gradient: grad},
			{name: StrategyOrganicNoLogo, kind: kindOrganic, gradient: grad},
			{name: StrategyOrganicFlat, kind: kindOrganic},
			{name: StrategyPlain, kind: kindPlain},
		}
	}
	out := all[:0:0]
	seen := make(map[strategy]bool)
	for _, st := range all {
		key := st
		key.name = ""
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, st)
	}
	return out
}

func (j *job) run(st strategy) (img image.Image, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	switch st.kind {
	case kindOrganic:
		return j.drawOrganic(st)
	case kindThermal:
		return j.drawThermal(st)
	default:
		return j.drawPlain()
	}
}

// analyze finds the data clusters and their contours once per job.
func (j *job) analyze() {
	if j.clusters != nil {
		return
	}
	j.clusters = DataClusters(j.m)
	j.contours = BuildContours(j.clusters, j.g)
}

func (j *job) drawOrganic(st strategy) (image.Image, error) {
	var lut *gradientLUT
	if st.gradient {
		if err := checkGradient(*j.opts.Gradient, j.opts.Background); err != nil {
			return nil, err
		}
		lut = newGradientLUT(*j.opts.Gradient, j.g)
	}
	j.analyze()
	r := &rasterizer{m: j.m, g: j.g, cover: smoothCoverage, maxRadius: j.opts.cornerRadius()}
	img := composite(r.rasterize(j.clusters, j.contours), j.opts.Background, j.opts.Foreground, lut)
	if st.logo {
		compositeLogo(img, j.logo, j.patch, j.patchColor(), smoothCoverage)
	}
	return img, nil
}

func (j *job) drawThermal(st strategy) (image.Image, error) {
	j.analyze()
	r := &rasterizer{m: j.m, g: j.g, cover: stepCoverage, maxRadius: j.opts.cornerRadius() * thermalRadiusScale}
	img := compositeBinary(r.rasterize(j.clusters, j.contours), j.opts.Background, j.opts.Foreground)
	if st.logo {
		compositeLogo(img, j.logo, j.patch, j.opts.Background, stepCoverage)
	}
	return toPaletted(img, j.opts.Background, j.opts.Foreground), nil
}

// drawPlain draws square modules with gg and no styling at all.
func (j *job) drawPlain() (image.Image, error) {
	side := j.g.Side
	dc := gg.NewContext(side, side)
	dc.SetColor(j.opts.Background)
	dc.Clear()
	dc.SetColor(j.opts.Foreground)
	n := j.m.Size()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if !j.m.Dark(row, col) {
				continue
			}
			x0, y0, _, _ := j.g.Cell(Coord{row, col})
			dc.DrawRectangle(x0, y0, j.g.ModuleSize, j.g.ModuleSize)
		}
	}
	dc.Fill()
	if !j.opts.Monochrome {
		return dc.Image(), nil
	}
	return toPaletted(imaging.Clone(dc.Image()), j.opts.Background, j.opts.Foreground), nil
}

func (j *job) patchColor() color.NRGBA {
	if l := j.opts.Logo; l != nil && l.Background != nil {
		return *l.Background
	}
	return j.opts.Background
}

// prepareLogo loads, sizes and crops the logo once. Every failure here is
// recorded as a warning and the render continues without a logo.
func (j *job) prepareLogo() {
	l := j.opts.Logo
	if l == nil || (j.opts.Monochrome && !j.opts.ThermalLogo) {
		return
	}
	if j.m.Level() != LevelH {
		j.warnings = append(j.warnings, fmt.Errorf("%w: level %s", ErrLogoNotAllowed, j.m.Level()))
		return
	}
	defer func() {
		if p := recover(); p != nil {
			j.logo, j.hasPatch = nil, false
			j.warnings = append(j.warnings, fmt.Errorf("%w: logo: panic: %v", ErrRenderDegraded, p))
		}
	}()

	src, err := loadLogo(l)
	if err != nil {
		j.warnings = append(j.warnings, err)
		return
	}
	patch, warn := planLogoPatch(l, j.g, j.opts.occlusionBudget())
	if warn != nil {
		j.warnings = append(j.warnings, warn)
	}
	if patch.radius <= 0 {
		return
	}
	if d := int(math.Round(2 * patch.logoRadius)); d > 0 {
		j.logo = prepareLogo(src, d, l.Zoom)
		if j.opts.Monochrome {
			j.logo = binarizeLogo(j.logo, j.opts.Foreground, j.opts.Background)
		}
	}
	j.patch, j.hasPatch = patch, true
}
