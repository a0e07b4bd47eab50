package goals

import (
	"fmt"
	"strings"

	"kpiboard/internal/agg"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// GoalSet carries the weekly targets that apply over one range of ISO weeks.
// ToWeek 0 means open-ended ("from this week onward").
type GoalSet struct {
	FromWeek agg.WeekID         `mapstructure:"from_week"`
	ToWeek   agg.WeekID         `mapstructure:"to_week"`
	Goals    map[string]float64 `mapstructure:"goals"`
}

// Contains reports whether the set's week range covers the queried week.
func (s GoalSet) Contains(week agg.WeekID) bool {
	return week >= s.FromWeek && (s.ToWeek == 0 || week <= s.ToWeek)
}

// Resolver answers goal lookups against an ordered list of date-ranged goal
// sets plus an alias table for base-name matching. It fails closed: unknown
// labels resolve to "no goal", never to an error.
type Resolver struct {
	Sets    []GoalSet
	Aliases map[string]string
}

type goalsFile struct {
	GoalSets []GoalSet         `mapstructure:"goal_sets"`
	Aliases  map[string]string `mapstructure:"aliases"`
}

// Load reads and validates the goals configuration file (YAML).
func Load(path string) (*Resolver, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read goals file %s: %w", path, err)
	}

	var f goalsFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to parse goals file %s: %w", path, err)
	}

	for i, set := range f.GoalSets {
		if set.FromWeek <= 0 {
			return nil, fmt.Errorf("goal set %d: from_week is required", i)
		}
		if set.ToWeek != 0 && set.ToWeek < set.FromWeek {
			return nil, fmt.Errorf("goal set %d: to_week %d precedes from_week %d", i, set.ToWeek, set.FromWeek)
		}
		if len(set.Goals) == 0 {
			return nil, fmt.Errorf("goal set %d: no goals defined", i)
		}
	}

	log.Info().Int("sets", len(f.GoalSets)).Str("path", path).Msg("Loaded weekly goal sets")
	return &Resolver{Sets: f.GoalSets, Aliases: f.Aliases}, nil
}

// GoalsForWeek returns the goal table of the first set covering the week, or
// nil when no set matches.
func (r *Resolver) GoalsForWeek(week agg.WeekID) map[string]float64 {
	for _, set := range r.Sets {
		if set.Contains(week) {
			return set.Goals
		}
	}
	return nil
}

// ResolveGoal looks up the weekly goal for a base label. The first goal set
// whose range contains the week wins; a matched set without an entry for the
// label still means "no goal".
func (r *Resolver) ResolveGoal(label string, week agg.WeekID) (float64, bool) {
	goals := r.GoalsForWeek(week)
	if goals == nil {
		return 0, false
	}
	g, ok := goals[label]
	return g, ok
}

// ResolveBase maps a (possibly abbreviated) base name onto a known metric
// name. Two deterministic phases: exact match and alias table first, then a
// case-insensitive substring scan over the known names. Empty result means
// no match.
func (r *Resolver) ResolveBase(name string, known []string) string {
	if name == "" {
		return ""
	}
	for _, k := range known {
		if k == name {
			return k
		}
	}
	if alias, ok := r.Aliases[name]; ok {
		for _, k := range known {
			if k == alias {
				return k
			}
		}
	}
	lower := strings.ToLower(name)
	for _, k := range known {
		kl := strings.ToLower(k)
		if strings.Contains(kl, lower) || strings.Contains(lower, kl) {
			return k
		}
	}
	return ""
}
