package strategy

import "github.com/felixgeelhaar/mentor/internal/domain"

// Selector picks the active coaching strategy from an ordered catalog
type Selector struct {
	catalog []CoachingStrategy
	active  CoachingStrategy
}

// NewSelector creates a selector over the given catalog. An empty catalog
// falls back to the built-in one. The last catalog entry doubles as the
// default strategy when nothing matches.
func NewSelector(catalog []CoachingStrategy) *Selector {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	return &Selector{
		catalog: catalog,
		active:  catalog[len(catalog)-1],
	}
}

// Active returns the currently selected strategy
func (s *Selector) Active() CoachingStrategy {
	return s.active
}

// SetActiveID restores the active strategy by ID on state import. Unknown
// IDs leave the default in place.
func (s *Selector) SetActiveID(id string) {
	for _, c := range s.catalog {
		if c.ID == id {
			s.active = c
			return
		}
	}
}

// Catalog returns the ordered catalog
func (s *Selector) Catalog() []CoachingStrategy {
	return s.catalog
}

// Reselect scans the catalog top-down and activates the first strategy whose
// trigger conditions all hold for the given metrics. It returns the active
// strategy and whether it changed.
func (s *Selector) Reselect(metrics domain.PerformanceMetrics) (CoachingStrategy, bool) {
	chosen := s.catalog[len(s.catalog)-1]
	for _, c := range s.catalog {
		if c.Trigger.Matches(metrics) {
			chosen = c
			break
		}
	}

	changed := chosen.ID != s.active.ID
	s.active = chosen
	return chosen, changed
}

// Matches reports whether all set conditions hold for the metrics
func (t TriggerConditions) Matches(m domain.PerformanceMetrics) bool {
	if m.GamesPlayed < t.MinGamesPlayed {
		return false
	}
	if m.AverageAccuracyPct < t.PerformanceThreshold {
		return false
	}
	if m.WinRatePct < t.WinRateRange[0] || m.WinRatePct > t.WinRateRange[1] {
		return false
	}
	if len(t.SkillLevels) > 0 {
		found := false
		for _, lvl := range t.SkillLevels {
			if lvl == m.SkillLevel {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
