package schedule

import (
	"sort"

	"github.com/rcliao/simdeck/internal/dynstate"
)

// FieldGroup is the root of every group tree.
const FieldGroup = "FIELD"

// GroupProduction holds the GCONPROD controls of a group, in SI units.
type GroupProduction struct {
	CMode           GroupProdCMode
	OilTarget       float64
	WaterTarget     float64
	GasTarget       float64
	LiquidTarget    float64
	ResvTarget      float64
	ExceedProcedure string
	RespondToParent bool
	GuideRate       float64
	GuideRateDef    string
}

// GroupInjection holds the GCONINJE controls of a group, in SI units.
type GroupInjection struct {
	Phase           InjectorType
	CMode           GroupInjCMode
	SurfaceTarget   float64
	ResvTarget      float64
	ReinjTarget     float64
	VoidageTarget   float64
	RespondToParent bool
	GuideRate       float64
}

// Group is a named group of wells with versioned controls. Wells are
// referenced by name.
type Group struct {
	name    string
	created int
	wells   *dynstate.State[[]string]
	prod    *dynstate.State[GroupProduction]
	inj     *dynstate.State[GroupInjection]
}

func newGroup(name string, step int) *Group {
	return &Group{
		name:    name,
		created: step,
		wells:   dynstate.New[[]string](nil),
		prod:    dynstate.New(GroupProduction{CMode: "NONE", RespondToParent: true}),
		inj:     dynstate.New(GroupInjection{CMode: "NONE", RespondToParent: true}),
	}
}

func (g *Group) Name() string   { return g.name }
func (g *Group) CreatedAt() int { return g.created }

// Wells returns the names of the wells in the group at step, sorted.
func (g *Group) Wells(step int) []string {
	ws := g.wells.At(step)
	out := make([]string, len(ws))
	copy(out, ws)
	return out
}

func (g *Group) HasWell(step int, well string) bool {
	for _, w := range g.wells.At(step) {
		if w == well {
			return true
		}
	}
	return false
}

func (g *Group) Production(step int) GroupProduction { return g.prod.At(step) }
func (g *Group) Injection(step int) GroupInjection   { return g.inj.At(step) }

func (g *Group) addWell(step int, well string) {
	if g.HasWell(step, well) {
		return
	}
	ws := append(g.Wells(step), well)
	sort.Strings(ws)
	g.wells.Set(step, ws)
}

func (g *Group) removeWell(step int, well string) {
	var ws []string
	for _, w := range g.wells.At(step) {
		if w != well {
			ws = append(ws, w)
		}
	}
	g.wells.Set(step, ws)
}

// GroupTree maps each group to its parent. FIELD has no parent. A tree is
// never changed in place; updates copy it.
type GroupTree struct {
	parent map[string]string
}

func newGroupTree() *GroupTree {
	return &GroupTree{parent: map[string]string{FieldGroup: ""}}
}

func (t *GroupTree) Has(group string) bool {
	_, ok := t.parent[group]
	return ok
}

// Parent returns the parent of group.
func (t *GroupTree) Parent(group string) (string, bool) {
	p, ok := t.parent[group]
	return p, ok && p != ""
}

// Children returns the direct children of group, sorted.
func (t *GroupTree) Children(group string) []string {
	var out []string
	for c, p := range t.parent {
		if p == group {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Groups returns every group of the tree, sorted.
func (t *GroupTree) Groups() []string {
	out := make([]string, 0, len(t.parent))
	for g := range t.parent {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Edges returns the (parent, child) pairs of the tree, sorted by child.
func (t *GroupTree) Edges() [][2]string {
	var out [][2]string
	for _, c := range t.Groups() {
		if p := t.parent[c]; p != "" {
			out = append(out, [2]string{p, c})
		}
	}
	return out
}

// with returns a copy of t where child hangs under parent. Missing parents
// are added under FIELD.
func (t *GroupTree) with(child, parent string) *GroupTree {
	out := &GroupTree{parent: make(map[string]string, len(t.parent)+2)}
	for c, p := range t.parent {
		out.parent[c] = p
	}
	if !out.Has(parent) {
		out.parent[parent] = FieldGroup
	}
	if child != FieldGroup {
		out.parent[child] = parent
	}
	return out
}

// isAncestor reports whether a is above b in the tree.
func (t *GroupTree) isAncestor(a, b string) bool {
	for p, ok := t.Parent(b); ok; p, ok = t.Parent(p) {
		if p == a {
			return true
		}
	}
	return false
}
