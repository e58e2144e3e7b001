package schedule

import (
	"github.com/rcliao/simdeck/internal/dynstate"
)

// Production holds the production controls of a well, in SI units.
type Production struct {
	CMode        ProducerCMode
	History      bool
	OilRate      float64
	WaterRate    float64
	GasRate      float64
	LiquidRate   float64
	CombinedRate float64
	ResvRate     float64
	BHP          float64
	THP          float64
	VFPTable     int
	ALQ          float64
}

// Injection holds the injection controls of a well, in SI units.
type Injection struct {
	Type        InjectorType
	CMode       InjectorCMode
	History     bool
	SurfaceRate float64
	ResvRate    float64
	BHP         float64
	THP         float64
	VFPTable    int
}

// Polymer holds the WPOLYMER concentrations of an injector.
type Polymer struct {
	Concentration float64
	Salt          float64
	GroupPolymer  string
	GroupSalt     string
}

// GuideRate holds the WGRUPCON settings of a well.
type GuideRate struct {
	GroupControlled bool
	Rate            float64
	Phase           string
	Scaling         float64
}

// Well is a named well with every property versioned by report step.
type Well struct {
	name    string
	created int
	headI   int
	headJ   int

	refDepth  *dynstate.State[float64]
	refGiven  *dynstate.State[bool]
	phase     *dynstate.State[Phase]
	requested *dynstate.State[Status]
	status    *dynstate.State[Status]
	producer  *dynstate.State[bool]
	prod      *dynstate.State[Production]
	inj       *dynstate.State[Injection]
	polymer   *dynstate.State[Polymer]
	guide     *dynstate.State[GuideRate]
	group     *dynstate.State[string]
	order     *dynstate.State[CompletionOrder]
	conns     *dynstate.State[*CompletionSet]
	segments  *dynstate.State[*SegmentSet]
	rft       *outputState
	plt       *outputState
}

func newWell(name string, step, headI, headJ int) *Well {
	return &Well{
		name:      name,
		created:   step,
		headI:     headI,
		headJ:     headJ,
		refDepth:  dynstate.New(0.0),
		refGiven:  dynstate.New(false),
		phase:     dynstate.New(PhaseOil),
		requested: dynstate.New(Shut),
		status:    dynstate.New(Shut),
		producer:  dynstate.New(true),
		prod:      dynstate.New(Production{CMode: ProdNone}),
		inj:       dynstate.New(Injection{}),
		polymer:   dynstate.New(Polymer{}),
		guide:     dynstate.New(GuideRate{GroupControlled: true, Rate: -1, Scaling: 1}),
		group:     dynstate.New(""),
		order:     dynstate.New(OrderTrack),
		conns:     dynstate.New(emptyCompletions),
		segments:  dynstate.New[*SegmentSet](nil),
		rft:       newOutputState(),
		plt:       newOutputState(),
	}
}

func (w *Well) Name() string { return w.name }

// CreatedAt returns the report step of the WELSPECS that created the well.
func (w *Well) CreatedAt() int { return w.created }

// Head returns the zero based head cell position.
func (w *Well) Head() (i, j int) { return w.headI, w.headJ }

func (w *Well) Status(step int) Status         { return w.status.At(step) }
func (w *Well) Phase(step int) Phase           { return w.phase.At(step) }
func (w *Well) Group(step int) string          { return w.group.At(step) }
func (w *Well) IsProducer(step int) bool       { return w.producer.At(step) }
func (w *Well) IsInjector(step int) bool       { return !w.producer.At(step) }
func (w *Well) Production(step int) Production { return w.prod.At(step) }
func (w *Well) Injection(step int) Injection   { return w.inj.At(step) }
func (w *Well) Polymer(step int) Polymer       { return w.polymer.At(step) }
func (w *Well) GuideRate(step int) GuideRate   { return w.guide.At(step) }
func (w *Well) RFTActive(step int) bool        { return w.rft.active.At(step) }
func (w *Well) PLTActive(step int) bool        { return w.plt.active.At(step) }

// Completions returns the completions at step, in COMPORD order.
func (w *Well) Completions(step int) *CompletionSet {
	return w.conns.At(step).Ordered(w.order.At(step))
}

// Segments returns the segment set at step, nil for a standard well.
func (w *Well) Segments(step int) *SegmentSet { return w.segments.At(step) }

// IsMultiSegment reports whether WELSEGS has been applied by step.
func (w *Well) IsMultiSegment(step int) bool { return w.segments.At(step) != nil }

// RefDepth returns the bottom hole reference depth. Without a WELSPECS
// value it is the depth of the shallowest completion.
func (w *Well) RefDepth(step int) float64 {
	if w.refGiven.At(step) {
		return w.refDepth.At(step)
	}
	cs := w.conns.At(step)
	if cs.Size() == 0 {
		return 0
	}
	depth := cs.At(0).Depth
	for _, c := range cs.list[1:] {
		if c.Depth < depth {
			depth = c.Depth
		}
	}
	return depth
}

// setStatus records s as the requested status and applies it subject to
// the completions. It returns the status in force.
func (w *Well) setStatus(step int, s Status) Status {
	w.requested.Set(step, s)
	return w.refreshStatus(step)
}

// refreshStatus reapplies the requested status: a well with no completion
// able to flow cannot be open and is shut instead. A transition to open
// fires pending first-open output requests.
func (w *Well) refreshStatus(step int) Status {
	s := w.requested.At(step)
	if s == Open && w.conns.At(step).AllShut() {
		s = Shut
	}
	prev := w.status.At(step - 1)
	w.status.Set(step, s)
	if s == Open && prev != Open {
		w.rft.opened(step)
		w.plt.opened(step)
	}
	return s
}

func (w *Well) setCompletions(step int, cs *CompletionSet) {
	w.conns.Set(step, cs)
	w.refreshStatus(step)
}
