package schedule

// Tuning holds the solver controls of TUNING, in SI units. Fields without
// a default carry a Has flag.
type Tuning struct {
	// Record 1: time stepping.
	TSINIT    float64
	TSMAXZ    float64
	TSMINZ    float64
	TSMCHP    float64
	TSFMAX    float64
	TSFMIN    float64
	TSFCNV    float64
	TFDIFF    float64
	THRUPT    float64
	TMAXWC    float64
	HasTMAXWC bool

	// Record 2: time truncation and convergence.
	TRGTTE    float64
	TRGCNV    float64
	TRGMBE    float64
	TRGLCV    float64
	XXXTTE    float64
	XXXCNV    float64
	XXXMBE    float64
	XXXLCV    float64
	XXXWFL    float64
	TRGFIP    float64
	TRGSFT    float64
	HasTRGSFT bool
	THIONX    float64
	TRWGHT    int

	// Record 3: iterations.
	NEWTMX    int
	NEWTMN    int
	LITMAX    int
	LITMIN    int
	MXWSIT    int
	MXWPIT    int
	DDPLIM    float64
	DDSLIM    float64
	TRGDPR    float64
	XXXDPR    float64
	HasXXXDPR bool
}

const day = 86400.0

// DefaultTuning returns the controls in force before any TUNING keyword.
func DefaultTuning() Tuning {
	return Tuning{
		TSINIT: 1 * day, TSMAXZ: 365 * day, TSMINZ: 0.1 * day, TSMCHP: 0.15 * day,
		TSFMAX: 3, TSFMIN: 0.3, TSFCNV: 0.1, TFDIFF: 1.25, THRUPT: 1e20,

		TRGTTE: 0.1, TRGCNV: 0.001, TRGMBE: 1e-7, TRGLCV: 0.0001,
		XXXTTE: 10, XXXCNV: 0.01, XXXMBE: 1e-6, XXXLCV: 0.001, XXXWFL: 0.001,
		TRGFIP: 0.025, THIONX: 0.01, TRWGHT: 1,

		NEWTMX: 12, NEWTMN: 1, LITMAX: 25, LITMIN: 1, MXWSIT: 8, MXWPIT: 8,
		DDPLIM: 1e6 * 1e5, DDSLIM: 1e6, TRGDPR: 1e6 * 1e5,
	}
}

type tuningField struct {
	name string
	dbl  func(t *Tuning) *float64
	int  func(t *Tuning) *int
	has  func(t *Tuning) *bool
}

func dblField(name string, f func(t *Tuning) *float64) tuningField {
	return tuningField{name: name, dbl: f}
}

func intField(name string, f func(t *Tuning) *int) tuningField {
	return tuningField{name: name, int: f}
}

func optField(name string, f func(t *Tuning) *float64, has func(t *Tuning) *bool) tuningField {
	return tuningField{name: name, dbl: f, has: has}
}

// tuningRecords lists the fields of each TUNING record by item name.
var tuningRecords = [3][]tuningField{
	{
		dblField("TSINIT", func(t *Tuning) *float64 { return &t.TSINIT }),
		dblField("TSMAXZ", func(t *Tuning) *float64 { return &t.TSMAXZ }),
		dblField("TSMINZ", func(t *Tuning) *float64 { return &t.TSMINZ }),
		dblField("TSMCHP", func(t *Tuning) *float64 { return &t.TSMCHP }),
		dblField("TSFMAX", func(t *Tuning) *float64 { return &t.TSFMAX }),
		dblField("TSFMIN", func(t *Tuning) *float64 { return &t.TSFMIN }),
		dblField("TSFCNV", func(t *Tuning) *float64 { return &t.TSFCNV }),
		dblField("TFDIFF", func(t *Tuning) *float64 { return &t.TFDIFF }),
		dblField("THRUPT", func(t *Tuning) *float64 { return &t.THRUPT }),
		optField("TMAXWC", func(t *Tuning) *float64 { return &t.TMAXWC }, func(t *Tuning) *bool { return &t.HasTMAXWC }),
	},
	{
		dblField("TRGTTE", func(t *Tuning) *float64 { return &t.TRGTTE }),
		dblField("TRGCNV", func(t *Tuning) *float64 { return &t.TRGCNV }),
		dblField("TRGMBE", func(t *Tuning) *float64 { return &t.TRGMBE }),
		dblField("TRGLCV", func(t *Tuning) *float64 { return &t.TRGLCV }),
		dblField("XXXTTE", func(t *Tuning) *float64 { return &t.XXXTTE }),
		dblField("XXXCNV", func(t *Tuning) *float64 { return &t.XXXCNV }),
		dblField("XXXMBE", func(t *Tuning) *float64 { return &t.XXXMBE }),
		dblField("XXXLCV", func(t *Tuning) *float64 { return &t.XXXLCV }),
		dblField("XXXWFL", func(t *Tuning) *float64 { return &t.XXXWFL }),
		dblField("TRGFIP", func(t *Tuning) *float64 { return &t.TRGFIP }),
		optField("TRGSFT", func(t *Tuning) *float64 { return &t.TRGSFT }, func(t *Tuning) *bool { return &t.HasTRGSFT }),
		dblField("THIONX", func(t *Tuning) *float64 { return &t.THIONX }),
		intField("TRWGHT", func(t *Tuning) *int { return &t.TRWGHT }),
	},
	{
		intField("NEWTMX", func(t *Tuning) *int { return &t.NEWTMX }),
		intField("NEWTMN", func(t *Tuning) *int { return &t.NEWTMN }),
		intField("LITMAX", func(t *Tuning) *int { return &t.LITMAX }),
		intField("LITMIN", func(t *Tuning) *int { return &t.LITMIN }),
		intField("MXWSIT", func(t *Tuning) *int { return &t.MXWSIT }),
		intField("MXWPIT", func(t *Tuning) *int { return &t.MXWPIT }),
		dblField("DDPLIM", func(t *Tuning) *float64 { return &t.DDPLIM }),
		dblField("DDSLIM", func(t *Tuning) *float64 { return &t.DDSLIM }),
		dblField("TRGDPR", func(t *Tuning) *float64 { return &t.TRGDPR }),
		optField("XXXDPR", func(t *Tuning) *float64 { return &t.XXXDPR }, func(t *Tuning) *bool { return &t.HasXXXDPR }),
	},
}

// applyRecord sets the fields of record n from rr. An empty record leaves
// the previous values in place; a defaulted item in a non-empty record
// takes its default.
func (t *Tuning) applyRecord(n int, rr *recordReader) error {
	empty := true
	for _, f := range tuningRecords[n] {
		if rr.given(f.name) {
			empty = false
			break
		}
	}
	if empty {
		return nil
	}
	for _, f := range tuningRecords[n] {
		switch {
		case f.int != nil:
			*f.int(t) = rr.int(f.name)
		case f.has != nil:
			*f.has(t) = rr.given(f.name)
			*f.dbl(t) = 0
			if rr.given(f.name) {
				*f.dbl(t) = rr.valueSI(f.name)
			}
		default:
			*f.dbl(t) = rr.valueSI(f.name)
		}
	}
	return rr.err
}
