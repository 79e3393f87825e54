package component

import (
	"strconv"

	"github.com/elliotchance/orderedmap/v2"
)

type AnimParamKind uint8

const (
	AnimParamBool AnimParamKind = iota
	AnimParamFloat
)

type AnimParam struct {
	Kind  AnimParamKind
	Bool  bool
	Float float64
}

func (p AnimParam) String() string {
	if p.Kind == AnimParamBool {
		return strconv.FormatBool(p.Bool)
	}
	return strconv.FormatFloat(p.Float, 'f', 2, 64)
}

// Animator is the named parameter table an animation state machine reads.
// Parameters keep the order in which they were first written.
type Animator struct {
	Params *orderedmap.OrderedMap[string, AnimParam]
	// Changed counts writes that altered a value.
	Changed int
}

func NewAnimator() *Animator {
	return &Animator{Params: orderedmap.NewOrderedMap[string, AnimParam]()}
}

func (a *Animator) SetBool(name string, v bool) {
	a.set(name, AnimParam{Kind: AnimParamBool, Bool: v})
}

func (a *Animator) SetFloat(name string, v float64) {
	a.set(name, AnimParam{Kind: AnimParamFloat, Float: v})
}

func (a *Animator) set(name string, p AnimParam) {
	if a.Params == nil {
		a.Params = orderedmap.NewOrderedMap[string, AnimParam]()
	}
	if old, ok := a.Params.Get(name); ok && old == p {
		return
	}
	a.Params.Set(name, p)
	a.Changed++
}

func (a *Animator) Bool(name string) bool {
	if a.Params == nil {
		return false
	}
	p, _ := a.Params.Get(name)
	return p.Bool
}

func (a *Animator) Float(name string) float64 {
	if a.Params == nil {
		return 0
	}
	p, _ := a.Params.Get(name)
	return p.Float
}

// Snapshot copies the table into a plain map.
func (a *Animator) Snapshot() map[string]AnimParam {
	out := make(map[string]AnimParam)
	if a.Params == nil {
		return out
	}
	for el := a.Params.Front(); el != nil; el = el.Next() {
		out[el.Key] = el.Value
	}
	return out
}

var AnimatorComponent = NewComponent[Animator]("animator")
