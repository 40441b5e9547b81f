package testkit

import (
	"math"
	"math/rand"

	"digihealth/domain/behavior"
)

// BehaviorGeneratorConfig configures the synthetic behaviour data generator
type BehaviorGeneratorConfig struct {
	Users         int     `json:"users"`
	Seed          int64   `json:"seed"`
	MeanUsageMin  float64 `json:"mean_usage_min"`
	MeanSleepHrs  float64 `json:"mean_sleep_hours"`
	NegativeRate  float64 `json:"negative_rate"`  // expected negative interactions per hour online
	StressPerHour float64 `json:"stress_per_hour"` // stress added per hour of usage above the mean
}

// DefaultBehaviorConfig returns defaults that produce both cohorts
func DefaultBehaviorConfig() BehaviorGeneratorConfig {
	return BehaviorGeneratorConfig{
		Users:         200,
		Seed:          42,
		MeanUsageMin:  180,
		MeanSleepHrs:  7,
		NegativeRate:  0.6,
		StressPerHour: 0.8,
	}
}

// BehaviorGenerator produces rows in which heavy usage and short sleep push
// stress and anxiety up, so that the high risk cohort is clearly separated.
type BehaviorGenerator struct {
	config BehaviorGeneratorConfig
	rng    *rand.Rand
}

// NewBehaviorGenerator creates a generator seeded from config
func NewBehaviorGenerator(config BehaviorGeneratorConfig) *BehaviorGenerator {
	return &BehaviorGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns a dataset of config.Users rows tagged with source.
func (g *BehaviorGenerator) Generate(source string) *behavior.Dataset {
	rows := make([]behavior.Row, 0, g.config.Users)
	for i := 0; i < g.config.Users; i++ {
		rows = append(rows, g.row())
	}
	return behavior.NewDataset(source, rows)
}

func (g *BehaviorGenerator) row() behavior.Row {
	usage := clamp(math.Round(g.config.MeanUsageMin+g.rng.NormFloat64()*70), 0, 720)
	sleep := clamp(math.Round((g.config.MeanSleepHrs+g.rng.NormFloat64()*1.2)*10)/10, 3, 11)

	hours := usage / 60
	negatives := 0.0
	// Light users mostly avoid negative interactions.
	if usage > g.config.MeanUsageMin*0.8 {
		negatives = math.Floor(hours * g.config.NegativeRate * g.rng.Float64() * 2)
	}
	positives := math.Floor(hours * (1 + g.rng.Float64()*2))

	excess := (usage - g.config.MeanUsageMin) / 60
	sleepDebt := math.Max(0, g.config.MeanSleepHrs-sleep)
	stress := clamp(math.Round(5+excess*g.config.StressPerHour+sleepDebt*0.7+negatives*0.2+g.rng.NormFloat64()), 1, 10)
	anxiety := clamp(math.Round(4+excess*g.config.StressPerHour*0.8+sleepDebt*0.6+g.rng.NormFloat64()), 1, 10)
	mood := clamp(math.Round(7-excess*0.5-sleepDebt*0.4+positives*0.1+g.rng.NormFloat64()), 1, 10)

	return behavior.Row{
		SocialMediaTimeMin:        usage,
		SleepHours:                sleep,
		NegativeInteractionsCount: negatives,
		PositiveInteractionsCount: positives,
		StressLevel:               stress,
		AnxietyLevel:              anxiety,
		MoodLevel:                 mood,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
