package cat

import (
	"fmt"
	"strings"
)

// Segment is one step of the record wizard.
type Segment string

const (
	SegmentBasic      Segment = "basic"
	SegmentPhysical   Segment = "physical"
	SegmentBehavioral Segment = "behavioral"
	SegmentMedical    Segment = "medical"
)

// Segments in wizard order.
var Segments = []Segment{SegmentBasic, SegmentPhysical, SegmentBehavioral, SegmentMedical}

var segmentLabels = map[Segment]string{
	SegmentBasic:      "Dados básicos e foto de perfil",
	SegmentPhysical:   "Características físicas",
	SegmentBehavioral: "Comportamento social",
	SegmentMedical:    "Carteira de vacinação e comorbidades",
}

func (s Segment) Label() string {
	return segmentLabels[s]
}

func (s Segment) Valid() bool {
	_, ok := segmentLabels[s]
	return ok
}

// Next returns the following segment; ok is false after medical.
func (s Segment) Next() (Segment, bool) {
	for i, seg := range Segments {
		if seg == s && i+1 < len(Segments) {
			return Segments[i+1], true
		}
	}
	return "", false
}

// ParseSegment maps an empty string to basic.
func ParseSegment(s string) (Segment, error) {
	seg := Segment(strings.ToLower(strings.TrimSpace(s)))
	if seg == "" {
		return SegmentBasic, nil
	}
	if !seg.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSegment, s)
	}
	return seg, nil
}

// SegmentData is the field group of exactly one segment.
type SegmentData interface {
	Segment() Segment
	applyTo(c *Cat)
}

// BasicData is the basic segment as wizard input.
type BasicData Basic

func (b BasicData) Segment() Segment  { return SegmentBasic }
func (p Physical) Segment() Segment   { return SegmentPhysical }
func (b Behavioral) Segment() Segment { return SegmentBehavioral }

// MedicalData is the editable part of Medical; status flags are not
// changed from the medical segment.
type MedicalData struct {
	Vaccines      []string
	Comorbidities []string
}

func (m MedicalData) Segment() Segment { return SegmentMedical }

func (b BasicData) applyTo(c *Cat)  { c.Basic = Basic(b) }
func (p Physical) applyTo(c *Cat)   { c.Physical = p }
func (b Behavioral) applyTo(c *Cat) { c.Behavioral = b }
func (m MedicalData) applyTo(c *Cat) {
	c.Vaccines = m.Vaccines
	c.Comorbidities = m.Comorbidities
}

// Apply returns a copy of c with data merged in.
func Apply(c Cat, data SegmentData) Cat {
	data.applyTo(&c)
	return c
}

// Data extracts the field group of seg from c.
func Data(c Cat, seg Segment) SegmentData {
	switch seg {
	case SegmentPhysical:
		return c.Physical
	case SegmentBehavioral:
		return c.Behavioral
	case SegmentMedical:
		return MedicalData{Vaccines: c.Vaccines, Comorbidities: c.Comorbidities}
	default:
		return BasicData(c.Basic)
	}
}

// Patch is the partial update body for seg: only that segment's fields.
func Patch(c Cat, seg Segment) map[string]any {
	switch seg {
	case SegmentPhysical:
		return map[string]any{"physicalCharacteristics": c.Physical}
	case SegmentBehavioral:
		return map[string]any{"behavioralCharacteristics": c.Behavioral}
	case SegmentMedical:
		return map[string]any{
			"vaccines":      nonNil(c.Vaccines),
			"comorbidities": nonNil(c.Comorbidities),
		}
	default:
		// a zero birth date goes out as null so the stored one is cleared
		p := map[string]any{
			"name":         c.Name,
			"gender":       c.Gender,
			"observations": c.Observations,
			"birthDate":    c.BirthDate,
		}
		if c.Picture != "" {
			p["picture"] = c.Picture
		}
		return p
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
