package texsynth

import (
	"math/rand/v2"

	log "github.com/sirupsen/logrus"
)

const rngStream = 0x9e3779b97f4a7c15

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, rngStream))
}

// Synthesizer grows an output texture pixel by pixel from an exemplar
// (Efros-Leung). It owns the canvas and its scheduler; the source is shared
// read-only with the matcher.
type Synthesizer struct {
	Source *Grid
	Canvas *Grid
	Opt    Options

	sched    *Scheduler
	matcher  *Matcher
	rng      *rand.Rand
	seedArea int
	steps    int
	// Error of the chosen candidate at every fill step.
	matchErrors []float64
	fallbacks   int
}

// Synthesize grows a texture of opt.OutputSize from source.
func Synthesize(source *Grid, opt Options) (*Grid, error) {
	s, err := NewSynthesizer(source, opt)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}

// NewSynthesizer validates opt and prepares an empty canvas. No canvas pixel
// is written until Run.
func NewSynthesizer(source *Grid, opt Options) (*Synthesizer, error) {
	if err := opt.ValidateSynthesis(source); err != nil {
		return nil, err
	}
	window, err := NewGaussianWindow(opt.WindowSize, opt.Sigma)
	if err != nil {
		return nil, err
	}
	h, w := opt.OutputSize[0], opt.OutputSize[1]
	return &Synthesizer{
		Source:  source,
		Canvas:  NewGrid(w, h, source.C),
		Opt:     opt,
		sched:   NewScheduler(w, h, opt.WindowSize),
		matcher: NewMatcher(source, window, opt.workers()),
		rng:     newRand(opt.Seed),
	}, nil
}

// Run seeds the canvas and fills every remaining pixel. It returns the
// finished canvas.
func (s *Synthesizer) Run() *Grid {
	total := s.Canvas.W * s.Canvas.H
	s.seedArea = s.sched.Seed(s.Source, s.Canvas, s.Opt.SeedSize, s.rng)
	s.matchErrors = make([]float64, 0, total-s.seedArea)

	log.WithFields(log.Fields{
		"width":  s.Canvas.W,
		"height": s.Canvas.H,
		"window": s.Opt.WindowSize,
		"seed":   s.seedArea,
	}).Debug("pixel growth started")

	mask := s.sched.Mask()
	radius := s.matcher.Window.Radius()
	nextReport := total / 10
	for {
		x, y, ok := s.sched.Next()
		if !ok {
			break
		}
		nb := ExtractNeighborhood(s.Canvas, mask, x, y, s.Opt.WindowSize)
		cands := s.matcher.Match(nb)
		// The source holds at least one full window, so cands is never empty.
		best, ok := cands.Select(s.Opt.Threshold, 0, s.rng)
		if !ok {
			s.fallbacks++
		}
		sx, sy := best.Center(radius)
		s.Canvas.SetPixel(x, y, s.Source.Pixel(sx, sy))
		s.sched.Fill(x, y)
		s.steps++
		s.matchErrors = append(s.matchErrors, best.Err)

		if filled := mask.Count(); nextReport > 0 && filled >= nextReport {
			log.WithFields(log.Fields{
				"filled": filled,
				"total":  total,
			}).Debug("pixel growth progress")
			nextReport += total / 10
		}
	}
	if s.fallbacks > 0 {
		log.WithField("fallbacks", s.fallbacks).Warn("threshold admitted no candidate, used best match")
	}
	log.WithField("steps", s.steps).Debug("pixel growth finished")
	return s.Canvas
}

// Steps returns the number of pixels grown after seeding.
func (s *Synthesizer) Steps() int {
	return s.steps
}

func (s *Synthesizer) SeedArea() int {
	return s.seedArea
}

func (s *Synthesizer) Mask() *Mask {
	return s.sched.Mask()
}

// MatchErrors returns the error of the chosen candidate for every step.
func (s *Synthesizer) MatchErrors() []float64 {
	return s.matchErrors
}
