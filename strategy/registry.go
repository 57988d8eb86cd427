package strategy

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnsupportedStrategy is returned for an unknown strategy identifier.
var ErrUnsupportedStrategy = errors.New("strategy: unsupported strategy")

// ParamSpec describes one numeric strategy parameter for the outward-facing
// catalog. Callers use it to build and validate backtest requests.
type ParamSpec struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"` // "int" or "float"
	Default float64 `json:"default"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Spec is the catalog entry for one strategy variant.
type Spec struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Params []ParamSpec `json:"params"`
}

type factory func(params map[string]float64) (Strategy, error)

type entry struct {
	spec  Spec
	build factory
}

// Registry holds the available strategy variants, keyed by identifier. The
// catalog itself is static configuration; New builds a fresh, single-owner
// Strategy instance per run.
type Registry struct {
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

func (r *Registry) Register(spec Spec, build factory) {
	r.entries[spec.ID] = entry{spec: spec, build: build}
}

// Specs returns the catalog sorted by strategy ID.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// New builds a strategy instance. Missing params take their declared default;
// out-of-range or unknown params are rejected.
func (r *Registry) New(id string, params map[string]float64) (Strategy, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, id)
	}

	resolved, err := resolveParams(e.spec, params)
	if err != nil {
		return nil, err
	}
	return e.build(resolved)
}

func resolveParams(spec Spec, params map[string]float64) (map[string]float64, error) {
	known := make(map[string]ParamSpec, len(spec.Params))
	resolved := make(map[string]float64, len(spec.Params))
	for _, p := range spec.Params {
		known[p.Name] = p
		resolved[p.Name] = p.Default
	}

	for name, v := range params {
		p, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("strategy %s: unknown parameter %q", spec.ID, name)
		}
		if v < p.Min || v > p.Max {
			return nil, fmt.Errorf("strategy %s: parameter %s=%v out of range [%v, %v]",
				spec.ID, name, v, p.Min, p.Max)
		}
		resolved[name] = v
	}
	return resolved, nil
}

// DefaultRegistry returns a registry with the built-in strategy variants. The
// defaults mirror the catalog exposed to clients: SMA cross over 20 days,
// 5/20 dual cross and a 14-day RSI with 30/70 thresholds, all trading lots of
// 100 shares.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	sizeParam := ParamSpec{Name: "size", Type: "int", Default: 100, Min: 1, Max: 100000}

	r.Register(Spec{
		ID:   "sma_cross",
		Name: "Moving Average Crossover",
		Params: []ParamSpec{
			{Name: "period", Type: "int", Default: 20, Min: 2, Max: 250},
			sizeParam,
		},
	}, func(p map[string]float64) (Strategy, error) {
		return NewSMACross(int(p["period"]), int(p["size"])), nil
	})

	r.Register(Spec{
		ID:   "dual_sma_cross",
		Name: "Dual Moving Average Crossover",
		Params: []ParamSpec{
			{Name: "fast_period", Type: "int", Default: 5, Min: 2, Max: 250},
			{Name: "slow_period", Type: "int", Default: 20, Min: 2, Max: 250},
			sizeParam,
		},
	}, func(p map[string]float64) (Strategy, error) {
		fast, slow := int(p["fast_period"]), int(p["slow_period"])
		if fast >= slow {
			return nil, fmt.Errorf("strategy dual_sma_cross: fast_period %d must be below slow_period %d", fast, slow)
		}
		return NewDualSMACross(fast, slow, int(p["size"])), nil
	})

	r.Register(Spec{
		ID:   "rsi",
		Name: "RSI Threshold",
		Params: []ParamSpec{
			{Name: "period", Type: "int", Default: 14, Min: 2, Max: 250},
			{Name: "oversold", Type: "float", Default: 30, Min: 0, Max: 100},
			{Name: "overbought", Type: "float", Default: 70, Min: 0, Max: 100},
			sizeParam,
		},
	}, func(p map[string]float64) (Strategy, error) {
		if p["oversold"] >= p["overbought"] {
			return nil, fmt.Errorf("strategy rsi: oversold %v must be below overbought %v", p["oversold"], p["overbought"])
		}
		return NewRSIThreshold(int(p["period"]), p["oversold"], p["overbought"], int(p["size"])), nil
	})

	return r
}
