package cat

import (
	"math"
	"strings"
)

// Completion marks which segments are considered filled.
type Completion map[Segment]bool

// Done counts completed segments.
func (c Completion) Done() int {
	n := 0
	for _, seg := range Segments {
		if c[seg] {
			n++
		}
	}
	return n
}

func filled(s string) bool { return strings.TrimSpace(s) != "" }

// Complete is the predicate re-evaluated after an edit of seg.
func Complete(c Cat, seg Segment) bool {
	switch seg {
	case SegmentBasic:
		return filled(c.Name) && filled(c.Gender)
	case SegmentPhysical:
		return filled(c.Physical.FurColor)
	case SegmentBehavioral:
		return filled(c.Behavioral.Personality)
	case SegmentMedical:
		return len(c.Vaccines) > 0 || len(c.Comorbidities) > 0
	default:
		return false
	}
}

// LoadedCompletion is evaluated once when an existing record is opened. It is
// looser than Complete for physical and behavioral.
func LoadedCompletion(c Cat) Completion {
	return Completion{
		SegmentBasic:      Complete(c, SegmentBasic),
		SegmentPhysical:   filled(c.Physical.FurColor) || filled(c.Physical.FurLength),
		SegmentBehavioral: filled(c.Behavioral.Personality) || filled(c.Behavioral.ActivityLevel),
		SegmentMedical:    Complete(c, SegmentMedical),
	}
}

// TrackedFields is the denominator of Progress.
const TrackedFields = 15

func trackedFilled(c Cat) int {
	checks := []bool{
		// basic
		filled(c.Name),
		filled(c.Gender),
		filled(c.Picture),
		!c.BirthDate.IsZero(),
		// physical
		filled(c.Physical.FurColor),
		filled(c.Physical.FurLength),
		filled(c.Physical.EyeColor),
		filled(c.Physical.Size),
		c.Physical.Weight > 0,
		// behavioral
		filled(c.Behavioral.Personality),
		filled(c.Behavioral.ActivityLevel),
		filled(c.Behavioral.SocialBehavior),
		filled(c.Behavioral.Vocalization),
		// medical
		len(c.Vaccines) > 0,
		len(c.Comorbidities) > 0,
	}

	n := 0
	for _, ok := range checks {
		if ok {
			n++
		}
	}
	return n
}

// Progress is the rounded percentage of tracked fields that are filled.
func Progress(c Cat) int {
	return int(math.Round(float64(trackedFilled(c)) / TrackedFields * 100))
}
