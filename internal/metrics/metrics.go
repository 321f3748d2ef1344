// Package metrics holds the pure calculation functions behind training and
// nutrition numbers: volume, estimated 1RM, rest heuristics, BMR/TDEE, macro
// targets, adherence and readiness scores. Everything here is deterministic
// and side-effect free.
package metrics

import "math"

// Volume is the standard strength workload metric: weight × reps × sets.
func Volume(weight float64, reps, sets int) float64 {
	return weight * float64(reps) * float64(sets)
}

// OneRepMax estimates the maximum single-rep weight from a submaximal lift
// using the Epley formula. A true single is returned unchanged.
func OneRepMax(weight float64, reps int) float64 {
	if reps == 1 {
		return weight
	}
	return math.Round(weight * (1 + float64(reps)/30))
}

// IntensityZone classifies a rep count into a training zone.
// Bands are inclusive on their lower bound; the highest matching band wins.
func IntensityZone(reps int) string {
	switch {
	case reps >= 15:
		return "endurance"
	case reps >= 8:
		return "hypertrophy"
	case reps >= 3:
		return "strength"
	default:
		return "power"
	}
}

// RestSeconds returns the suggested rest period for a set. Cardio gets a flat
// 30s; strength work scales with intensity (percent of 1RM).
func RestSeconds(intensityPercent float64, exerciseType string) int {
	if exerciseType == "cardio" {
		return 30
	}
	switch {
	case intensityPercent >= 90:
		return 180
	case intensityPercent >= 70:
		return 120
	default:
		return 60
	}
}

// BMR computes basal metabolic rate via the Mifflin-St Jeor equation.
// Weight in kg, height in cm. Gender is "male" or "female"; anything else
// gets the base term without the gender offset.
func BMR(weightKg, heightCm float64, age int, gender string) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch gender {
	case "male":
		return bmr + 5
	case "female":
		return bmr - 161
	}
	return bmr
}

// Activity multipliers for TDEE, keyed by activity level.
var tdeeMultipliers = map[string]float64{
	"sedentary":         1.2,
	"lightly_active":    1.375,
	"moderately_active": 1.55,
	"very_active":       1.725,
	"extremely_active":  1.9,
}

// TDEE scales a BMR by the activity-level multiplier, rounded to the nearest
// calorie. Unknown levels fall back to sedentary.
func TDEE(bmr float64, activityLevel string) int {
	mult, ok := tdeeMultipliers[activityLevel]
	if !ok {
		mult = tdeeMultipliers["sedentary"]
	}
	return int(math.Round(bmr * mult))
}

// MacroSplit holds daily macro targets in grams.
type MacroSplit struct {
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

// MacroDistribution splits a calorie budget into protein/carb/fat grams.
// The protein ratio has a per-kg floor for muscle gain (2.2 g/kg) and weight
// loss (2.0 g/kg); carbs take whatever calories remain. A non-positive
// budget yields a zero split; the per-kg floors divide by calories.
func MacroDistribution(calories int, goal string, bodyWeightKg float64) MacroSplit {
	if calories <= 0 {
		return MacroSplit{}
	}

	var proteinRatio, fatRatio float64

	switch goal {
	case "muscle_gain":
		proteinRatio = math.Max(0.30, bodyWeightKg*2.2/float64(calories))
		fatRatio = 0.25
	case "weight_loss":
		proteinRatio = math.Max(0.35, bodyWeightKg*2.0/float64(calories))
		fatRatio = 0.25
	case "performance":
		proteinRatio = 0.25
		fatRatio = 0.20
	default:
		proteinRatio = 0.30
		fatRatio = 0.25
	}

	carbRatio := 1 - proteinRatio - fatRatio

	return MacroSplit{
		ProteinG: int(math.Round(float64(calories) * proteinRatio / 4)),
		CarbsG:   int(math.Round(float64(calories) * carbRatio / 4)),
		FatG:     int(math.Round(float64(calories) * fatRatio / 9)),
	}
}

// Intake is one day of consumed macros.
type Intake struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// AdherenceScore measures how closely a day's intake matched its targets,
// 0-100. Each macro scores 100 minus its percentage deviation (floored at 0);
// the overall score is the rounded mean of the four.
func AdherenceScore(consumed, goals Intake) int {
	score := func(actual, target float64) float64 {
		return math.Max(0, 100-math.Abs(actual-target)/target*100)
	}
	sum := score(consumed.Calories, goals.Calories) +
		score(consumed.Protein, goals.Protein) +
		score(consumed.Carbs, goals.Carbs) +
		score(consumed.Fat, goals.Fat)
	return int(math.Round(sum / 4))
}

// AdherenceRate is the percentage of planned workouts actually completed.
func AdherenceRate(planned, completed int) int {
	if planned <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(planned) * 100))
}

// RecoveryMetrics is a daily recovery check-in. All fields are 1-10 except
// SleepHours.
type RecoveryMetrics struct {
	SleepQuality float64 `json:"sleep_quality"`
	SleepHours   float64 `json:"sleep_hours"`
	StressLevel  float64 `json:"stress_level"`
	Soreness     float64 `json:"soreness"`
	Energy       float64 `json:"energy"`
	Motivation   float64 `json:"motivation"`
}

// ReadinessScore folds recovery metrics into a single 0-10 training-readiness
// value. Stress and soreness weigh negatively; sleep hours are normalized
// against an 8-hour baseline before weighting.
func ReadinessScore(m RecoveryMetrics) int {
	normalizedSleepHours := math.Min(m.SleepHours/8, 1) * 10

	score := m.SleepQuality*0.25 +
		m.StressLevel*-0.20 +
		m.Soreness*-0.15 +
		m.Energy*0.20 +
		m.Motivation*0.15 +
		normalizedSleepHours*0.15

	return int(math.Max(0, math.Min(10, math.Round(score))))
}
