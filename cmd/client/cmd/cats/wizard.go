package cats

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cattus/cmd/client/cmd/types"
	"cattus/internal/domain/cat"
	"cattus/internal/domain/editor"
)

var (
	interactive bool
	segmentName string
	andContinue bool

	fields = struct {
		name, gender, birthDate, observations, picture        string
		furColor, furLength, eyeColor, size, castrated, breed string
		weight                                                float64
		personality, activityLevel, socialBehavior, vocal     string
		comorbidities                                         []string
		vaccineCard                                           string
	}{}
)

var AddCmd = types.Route(&cobra.Command{
	Use:   "add",
	Short: "Cadastrar um gato",
	Long: `Cria o registro com os dados básicos (nome e sexo são obrigatórios).
Com --interactive as etapas seguintes são preenchidas em sequência.`,
	Example: `  cattus cats add --name Luna --gender Fêmea --picture luna.jpg
  cattus cats add -i`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWizard(cmd, "")
	},
}, "/cats/add")

var EditCmd = types.Route(&cobra.Command{
	Use:   "edit <id>",
	Short: "Editar uma etapa do cadastro",
	Long: `Atualiza só os campos da etapa escolhida com --segment
(basic, physical, behavioral, medical).`,
	Example: `  cattus cats edit 42 --segment physical --fur-color preta --size Médio
  cattus cats edit 42 --segment medical --comorbidity Obesidade --vaccine-card carteira.pdf
  cattus cats edit 42 -i`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard(cmd, args[0])
	},
}, "/cats/edit/:id")

func runWizard(cmd *cobra.Command, id string) error {
	app, err := types.App(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	e, err := app.Editor(ctx, id)
	if err != nil {
		return types.Check(ctx, app, err)
	}
	defer e.Close()

	seg, err := cat.ParseSegment(segmentName)
	if err != nil {
		return err
	}
	if err := e.Navigate(seg); err != nil {
		return err
	}

	if interactive || (id == "" && !cmd.Flags().Changed("name")) {
		return interactiveWizard(cmd, e)
	}

	data, err := segmentFromFlags(cmd.Flags(), e.Active(), e.Record())
	if err != nil {
		return err
	}
	if err := e.Change(data); err != nil {
		return err
	}
	files, err := attachmentsFromFlags(e.Active())
	if err != nil {
		return err
	}

	outcome, err := e.Save(ctx, andContinue, files...)
	if err != nil {
		return types.Check(ctx, app, err)
	}
	report(out, e, outcome)
	return nil
}

// interactiveWizard walks the segments from the active one, saving each.
func interactiveWizard(cmd *cobra.Command, e *editor.Editor) error {
	app, _ := types.App(cmd)
	ctx := cmd.Context()
	p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	for {
		seg := e.Active()
		fmt.Fprintf(p.out, "\n== %s (%d%%) ==\n", seg.Label(), e.Progress())

		data, err := promptSegment(p, seg, e.Record())
		if err != nil {
			return err
		}
		if err := e.Change(data); err != nil {
			fmt.Fprintf(p.out, "Dados inválidos: %v\n", err)
			continue
		}
		files, err := promptAttachment(p, seg)
		if err != nil {
			return err
		}

		next := true
		if _, more := seg.Next(); more {
			if next, err = p.confirm("Salvar e continuar?", true); err != nil {
				return err
			}
		}

		outcome, err := e.Save(ctx, next, files...)
		if err != nil {
			if errors.Is(err, editor.ErrNoCompany) {
				return err
			}
			if err := types.Check(ctx, app, err); errors.Is(err, types.ErrSessionExpire) {
				return err
			}
			retry, cerr := p.confirm("Tentar novamente?", true)
			if cerr != nil || !retry {
				return err
			}
			continue
		}
		report(p.out, e, outcome)
		if outcome.Done {
			return nil
		}
	}
}

func report(out io.Writer, e *editor.Editor, o editor.Outcome) {
	if o.Created {
		fmt.Fprintf(out, "ID: %s\n", o.ID)
	}
	fmt.Fprintf(out, "Progresso: %d%%\n", e.Progress())
	if !o.Done {
		fmt.Fprintf(out, "Próxima etapa: %s (cattus cats edit %s --segment %s)\n", o.Next.Label(), o.ID, o.Next)
	}
}

func promptSegment(p *prompter, seg cat.Segment, c cat.Cat) (cat.SegmentData, error) {
	var err error
	ask := func(label, current string) string {
		if err != nil {
			return ""
		}
		var v string
		v, err = p.ask(label, current)
		return v
	}
	choose := func(label string, options []string, current string) string {
		if err != nil {
			return ""
		}
		var v string
		v, err = p.choose(label, options, current)
		return v
	}

	switch seg {
	case cat.SegmentPhysical:
		d := cat.Physical{
			FurColor:  choose("Cor da pelagem", cat.FurColors, c.Physical.FurColor),
			FurLength: choose("Comprimento do pelo", cat.FurLengths, c.Physical.FurLength),
			EyeColor:  choose("Cor dos olhos", cat.EyeColors, c.Physical.EyeColor),
			Size:      choose("Porte", cat.Sizes, c.Physical.Size),
			Castrated: choose("Castrado", cat.Castration, c.Physical.Castrated),
			Breed:     choose("Raça", cat.Breeds, c.Physical.Breed),
		}
		weight := ask("Peso (kg)", formatWeight(c.Physical.Weight))
		if err != nil {
			return nil, err
		}
		if d.Weight, err = parseWeight(weight); err != nil {
			return nil, err
		}
		return d, nil
	case cat.SegmentBehavioral:
		d := cat.Behavioral{
			Personality:    ask("Personalidade", c.Behavioral.Personality),
			ActivityLevel:  ask("Nível de atividade", c.Behavioral.ActivityLevel),
			SocialBehavior: ask("Comportamento social", c.Behavioral.SocialBehavior),
			Vocalization:   ask("Vocalização", c.Behavioral.Vocalization),
		}
		return d, err
	case cat.SegmentMedical:
		comorbidities, err := p.multi("Comorbidades", cat.Comorbidities, c.Comorbidities)
		if err != nil {
			return nil, err
		}
		return cat.MedicalData{Vaccines: c.Vaccines, Comorbidities: comorbidities}, nil
	default:
		d := cat.BasicData{
			Name:         ask("Nome", c.Name),
			Gender:       choose("Sexo", cat.Genders, c.Gender),
			Observations: ask("Observações", c.Observations),
			Picture:      c.Picture,
		}
		birth := ask("Data de nascimento (AAAA-MM-DD)", c.BirthDate.String())
		if err != nil {
			return nil, err
		}
		if birth != "" {
			if d.BirthDate, err = cat.ParseDate(birth); err != nil {
				return nil, err
			}
		}
		return d, nil
	}
}

func promptAttachment(p *prompter, seg cat.Segment) ([]cat.Attachment, error) {
	var label, field string
	switch seg {
	case cat.SegmentBasic:
		label, field = "Foto de perfil (caminho do arquivo)", cat.FieldPicture
	case cat.SegmentMedical:
		label, field = "Carteira de vacinação (caminho do arquivo)", cat.FieldVaccineCard
	default:
		return nil, nil
	}
	path, err := p.ask(label, "")
	if err != nil || path == "" {
		return nil, err
	}
	a, err := loadAttachment(field, path)
	if err != nil {
		return nil, err
	}
	return []cat.Attachment{a}, nil
}

// segmentFromFlags starts from the stored values and overrides the flags
// that were set.
func segmentFromFlags(flags *pflag.FlagSet, seg cat.Segment, c cat.Cat) (cat.SegmentData, error) {
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = strings.TrimSpace(v)
		}
	}

	switch seg {
	case cat.SegmentPhysical:
		d := c.Physical
		set("fur-color", &d.FurColor, fields.furColor)
		set("fur-length", &d.FurLength, fields.furLength)
		set("eye-color", &d.EyeColor, fields.eyeColor)
		set("size", &d.Size, fields.size)
		set("castrated", &d.Castrated, fields.castrated)
		set("breed", &d.Breed, fields.breed)
		if flags.Changed("weight") {
			d.Weight = fields.weight
		}
		return d, nil
	case cat.SegmentBehavioral:
		d := c.Behavioral
		set("personality", &d.Personality, fields.personality)
		set("activity-level", &d.ActivityLevel, fields.activityLevel)
		set("social-behavior", &d.SocialBehavior, fields.socialBehavior)
		set("vocalization", &d.Vocalization, fields.vocal)
		return d, nil
	case cat.SegmentMedical:
		d := cat.MedicalData{Vaccines: c.Vaccines, Comorbidities: c.Comorbidities}
		if flags.Changed("comorbidity") {
			d.Comorbidities = fields.comorbidities
		}
		return d, nil
	default:
		d := cat.BasicData(c.Basic)
		set("name", &d.Name, fields.name)
		set("gender", &d.Gender, fields.gender)
		set("observations", &d.Observations, fields.observations)
		if flags.Changed("birth-date") {
			date, err := cat.ParseDate(fields.birthDate)
			if err != nil {
				return nil, err
			}
			d.BirthDate = date
		}
		return d, nil
	}
}

func attachmentsFromFlags(seg cat.Segment) ([]cat.Attachment, error) {
	var field, path string
	switch seg {
	case cat.SegmentBasic:
		field, path = cat.FieldPicture, fields.picture
	case cat.SegmentMedical:
		field, path = cat.FieldVaccineCard, fields.vaccineCard
	}
	if path == "" {
		return nil, nil
	}
	a, err := loadAttachment(field, path)
	if err != nil {
		return nil, err
	}
	return []cat.Attachment{a}, nil
}

func loadAttachment(field, path string) (cat.Attachment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if field == cat.FieldVaccineCard && !slices.Contains(cat.VaccineCardExtensions, ext) {
		return cat.Attachment{}, fmt.Errorf("formato não suportado: %s (aceitos: %s)", ext, strings.Join(cat.VaccineCardExtensions, ", "))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cat.Attachment{}, fmt.Errorf("erro ao ler arquivo: %w", err)
	}
	return cat.Attachment{
		Field:       field,
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(ext),
		Data:        data,
	}, nil
}

func formatWeight(w float64) string {
	if w == 0 {
		return ""
	}
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func parseWeight(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	w, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, fmt.Errorf("peso inválido: %q", s)
	}
	return w, nil
}

func init() {
	for _, c := range []*cobra.Command{AddCmd, EditCmd} {
		f := c.Flags()
		f.BoolVarP(&interactive, "interactive", "i", false, "preencher as etapas no terminal")
		f.BoolVar(&andContinue, "continue", false, "avançar para a próxima etapa depois de salvar")

		f.StringVar(&fields.name, "name", "", "nome")
		f.StringVar(&fields.gender, "gender", "", "sexo ("+strings.Join(cat.Genders, ", ")+")")
		f.StringVar(&fields.birthDate, "birth-date", "", "data de nascimento (AAAA-MM-DD)")
		f.StringVar(&fields.observations, "observations", "", "observações (markdown)")
		f.StringVar(&fields.picture, "picture", "", "arquivo da foto de perfil")
	}

	f := EditCmd.Flags()
	f.StringVar(&segmentName, "segment", string(cat.SegmentBasic), "etapa (basic, physical, behavioral, medical)")
	f.StringVar(&fields.furColor, "fur-color", "", "cor da pelagem")
	f.StringVar(&fields.furLength, "fur-length", "", "comprimento do pelo")
	f.StringVar(&fields.eyeColor, "eye-color", "", "cor dos olhos")
	f.StringVar(&fields.size, "size", "", "porte")
	f.Float64Var(&fields.weight, "weight", 0, "peso em kg")
	f.StringVar(&fields.castrated, "castrated", "", "castrado (Sim, Não)")
	f.StringVar(&fields.breed, "breed", "", "raça")
	f.StringVar(&fields.personality, "personality", "", "personalidade")
	f.StringVar(&fields.activityLevel, "activity-level", "", "nível de atividade")
	f.StringVar(&fields.socialBehavior, "social-behavior", "", "comportamento social")
	f.StringVar(&fields.vocal, "vocalization", "", "vocalização")
	f.StringSliceVar(&fields.comorbidities, "comorbidity", nil, "comorbidade (repetível)")
	f.StringVar(&fields.vaccineCard, "vaccine-card", "", "arquivo da carteira de vacinação")
}
