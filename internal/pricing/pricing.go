package pricing

import (
	"fmt"
	"math"
)

// JobType identifies a renovation job category.
type JobType string

const (
	JobKitchen  JobType = "kitchen"
	JobBathroom JobType = "bathroom"
	JobPainting JobType = "painting"
	JobFlooring JobType = "flooring"
	JobRoofing  JobType = "roofing"
)

// Urgency selects between the standard timeline and a rush job.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyRush   Urgency = "rush"
)

// Rates maps each job type to its dollar rate per square foot.
var Rates = map[JobType]float64{
	JobKitchen:  200,
	JobBathroom: 150,
	JobPainting: 2.50,
	JobFlooring: 5.00,
	JobRoofing:  9.00,
}

// RushMarkup is the surcharge applied to rush jobs.
const RushMarkup = 0.15

// JobTypeLabels are the customer-facing names for each job type.
var JobTypeLabels = map[JobType]string{
	JobKitchen:  "Kitchen Remodel",
	JobBathroom: "Bathroom Remodel",
	JobPainting: "Painting",
	JobFlooring: "Flooring",
	JobRoofing:  "Roofing",
}

// UrgencyLabels are the customer-facing names for each urgency level.
var UrgencyLabels = map[Urgency]string{
	UrgencyNormal: "Normal Timeline",
	UrgencyRush:   "Rush Job (+15%)",
}

// ValidJobType reports whether t is a known job type.
func ValidJobType(t JobType) bool {
	_, ok := Rates[t]
	return ok
}

// ValidUrgency reports whether u is a known urgency level.
func ValidUrgency(u Urgency) bool {
	return u == UrgencyNormal || u == UrgencyRush
}

// Quote computes the estimated price for a job. It fails closed on an
// unknown job type or urgency rather than defaulting to any rate.
func Quote(jobType JobType, squareFootage int, urgency Urgency) (float64, error) {
	rate, ok := Rates[jobType]
	if !ok {
		return 0, fmt.Errorf("pricing: unknown job type %q", jobType)
	}
	if !ValidUrgency(urgency) {
		return 0, fmt.Errorf("pricing: unknown urgency %q", urgency)
	}
	if squareFootage < 1 {
		return 0, fmt.Errorf("pricing: square footage must be at least 1, got %d", squareFootage)
	}

	total := rate * float64(squareFootage)
	if urgency == UrgencyRush {
		total *= 1 + RushMarkup
	}
	return math.Round(total*100) / 100, nil
}

// FormatCurrency renders an amount as a USD string, e.g. "$23,000.00".
func FormatCurrency(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	dot := len(s) - 3
	intPart, frac := s[:dot], s[dot:]

	neg := false
	if len(intPart) > 0 && intPart[0] == '-' {
		neg = true
		intPart = intPart[1:]
	}

	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}

	if neg {
		return "-$" + string(out) + frac
	}
	return "$" + string(out) + frac
}
