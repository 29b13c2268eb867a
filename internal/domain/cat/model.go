package cat

import (
	"encoding/json"
	"strings"
	"time"

	"cattus/internal/domain/ref"
)

const (
	StatusHealthy = "healthy"
	StatusSick    = "sick"
)

// Cat is the shelter record edited by the wizard. ID stays empty until the
// basic segment has been created on the server.
type Cat struct {
	ID      string `json:"id,omitempty"`
	Company string `json:"company,omitempty"`

	Basic
	Physical   Physical   `json:"physicalCharacteristics"`
	Behavioral Behavioral `json:"behavioralCharacteristics"`
	Medical

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type Basic struct {
	Name         string `json:"name"`
	BirthDate    Date   `json:"birthDate,omitempty"`
	Gender       string `json:"gender"`
	Picture      string `json:"picture,omitempty"`
	Observations string `json:"observations,omitempty"`
}

type Physical struct {
	FurColor  string  `json:"furColor,omitempty"`
	FurLength string  `json:"furLength,omitempty"`
	EyeColor  string  `json:"eyeColor,omitempty"`
	Size      string  `json:"size,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
	Castrated string  `json:"castrated,omitempty"`
	Breed     string  `json:"breed,omitempty"`
}

type Behavioral struct {
	Personality    string `json:"personality,omitempty"`
	ActivityLevel  string `json:"activityLevel,omitempty"`
	SocialBehavior string `json:"socialBehavior,omitempty"`
	Vocalization   string `json:"vocalization,omitempty"`
}

type Medical struct {
	Vaccines      []string `json:"vaccines"`
	Comorbidities []string `json:"comorbidities"`
	Status        string   `json:"status,omitempty"`
	Favorite      bool     `json:"favorite"`
}

// UnmarshalJSON accepts numeric ids, a populated company object and the
// older "sex" key for gender.
func (c *Cat) UnmarshalJSON(b []byte) error {
	type plain Cat
	var aux struct {
		plain
		ID      ref.ID `json:"id"`
		Company ref.ID `json:"company"`
		Sex     string `json:"sex"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*c = Cat(aux.plain)
	c.ID = aux.ID.String()
	c.Company = aux.Company.String()
	if c.Gender == "" {
		c.Gender = aux.Sex
	}
	return nil
}

// Sick reports whether the medical status flags the cat.
func (c Cat) Sick() bool {
	return strings.EqualFold(c.Status, StatusSick)
}

// Age returns whole years since birth, or -1 when the birth date is unknown.
func (c Cat) Age(now time.Time) int {
	if c.BirthDate.IsZero() {
		return -1
	}
	b := c.BirthDate.Time
	years := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Attachment is a file sent alongside a multipart create or update.
type Attachment struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

const (
	FieldPicture     = "picture"
	FieldVaccineCard = "vaccineCard"
)

// CreateForm is what a first save sends: basic fields, default medical
// status and the owning company.
type CreateForm struct {
	Basic
	Company  string
	Status   string
	Favorite bool
}

// NewCreateForm builds the first-save payload of c.
func NewCreateForm(c Cat) CreateForm {
	return CreateForm{
		Basic:    c.Basic,
		Company:  c.Company,
		Status:   StatusHealthy,
		Favorite: false,
	}
}

// Fields flattens the form for multipart encoding.
func (f CreateForm) Fields() map[string]string {
	fields := map[string]string{
		"name":     f.Name,
		"gender":   f.Gender,
		"company":  f.Company,
		"status":   f.Status,
		"favorite": "false",
	}
	if f.Favorite {
		fields["favorite"] = "true"
	}
	if !f.BirthDate.IsZero() {
		fields["birthDate"] = f.BirthDate.String()
	}
	if f.Picture != "" {
		fields["picture"] = f.Picture
	}
	if f.Observations != "" {
		fields["observations"] = f.Observations
	}
	return fields
}
