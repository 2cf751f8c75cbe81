package manager

import (
	"modelhost/internal/launcher"
	"modelhost/pkg/types"
)

// SanityReport lists how each catalog record would be launched.
type SanityReport struct {
	Strategies   []string           `json:"strategies,omitempty"`
	Plans        []types.LaunchPlan `json:"plans"`
	Unlaunchable int                `json:"unlaunchable"`
}

// SanityCheck resolves every catalog record without spawning anything.
// It does not mutate state and is safe to call at any time.
func (m *Manager) SanityCheck() SanityReport {
	models := m.ListModels()
	r := SanityReport{Plans: make([]types.LaunchPlan, 0, len(models))}
	if named, ok := m.resolver.(interface{ Names() []string }); ok {
		r.Strategies = named.Names()
	}
	for _, mdl := range models {
		p := planFor(m.resolver, mdl)
		if p.Error != "" {
			r.Unlaunchable++
		}
		r.Plans = append(r.Plans, p)
	}
	return r
}

func planFor(res LaunchResolver, mdl types.Model) types.LaunchPlan {
	if lr, ok := res.(*launcher.Resolver); ok {
		return lr.Plan(mdl)
	}
	spec, err := res.Resolve(mdl)
	if err != nil {
		return types.LaunchPlan{ModelID: mdl.ID, Error: err.Error()}
	}
	return types.LaunchPlan{
		ModelID:  mdl.ID,
		Strategy: spec.Strategy,
		Path:     spec.Path,
		Args:     spec.Args,
		Dir:      spec.Dir,
		Shell:    spec.Shell,
	}
}
