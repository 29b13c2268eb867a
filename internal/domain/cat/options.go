package cat

import (
	"fmt"
	"math"
	"slices"
)

// Option catalogues offered by the wizard forms.
var (
	Genders    = []string{"Macho", "Fêmea"}
	Castration = []string{"Sim", "Não"}
	Breeds     = []string{"Siamês", "Persa", "Maine Coon", "Bengal", "Ragdoll", "Sphynx", "British Shorthair", "Abissínio", "SRD"}
	FurLengths = []string{"curto", "médio", "longo"}
	FurColors  = []string{"preta", "branca", "cinza", "laranja", "marrom", "mesclada"}
	Sizes      = []string{"Pequeno", "Médio", "Grande"}
	EyeColors  = []string{"azul", "verde", "castanho", "âmbar", "heterocromia"}

	Comorbidities = []string{
		"Incontinência Urinária",
		"Obesidade",
		"Doença Inflamatória Intestinal",
		"Artrite",
		"Infecção por FIV",
		"Doença Renal Crônica",
		"Linfoma",
	}

	// VaccineCardExtensions lists the accepted vaccine card uploads.
	VaccineCardExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}
)

// CheckOption accepts empty values; anything else must be in options.
func CheckOption(field, value string, options []string) error {
	if value == "" || slices.Contains(options, value) {
		return nil
	}
	return fmt.Errorf("%s: %w: %q", field, ErrUnknownOption, value)
}

// Validate checks the option-backed fields of data.
func Validate(data SegmentData) error {
	switch d := data.(type) {
	case BasicData:
		return CheckOption("gender", d.Gender, Genders)
	case Physical:
		for _, c := range []struct {
			field, value string
			options      []string
		}{
			{"furColor", d.FurColor, FurColors},
			{"furLength", d.FurLength, FurLengths},
			{"eyeColor", d.EyeColor, EyeColors},
			{"size", d.Size, Sizes},
			{"castrated", d.Castrated, Castration},
			{"breed", d.Breed, Breeds},
		} {
			if err := CheckOption(c.field, c.value, c.options); err != nil {
				return err
			}
		}
		if math.IsNaN(d.Weight) || math.IsInf(d.Weight, 0) {
			return fmt.Errorf("weight must be a finite number")
		}
		if d.Weight < 0 {
			return fmt.Errorf("weight must not be negative")
		}
	case MedicalData:
		for _, c := range d.Comorbidities {
			if err := CheckOption("comorbidities", c, Comorbidities); err != nil {
				return err
			}
		}
	}
	return nil
}
