package cats

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cattus/cmd/client/cmd/types"
	"cattus/internal/domain/cat"
)

var getFormat string

var GetCmd = types.Route(&cobra.Command{
	Use:   "get <id>",
	Short: "Mostrar um gato",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		c, err := app.API().Cats().Get(cmd.Context(), args[0])
		if err != nil {
			return types.Check(cmd.Context(), app, err)
		}

		out := cmd.OutOrStdout()
		if getFormat == types.FormatJSON {
			return types.PrintJSON(out, c)
		}

		fmt.Fprintf(out, "%s %s\n", star(c.Favorite), c.Name)
		fmt.Fprintf(out, "ID:            %s\n", c.ID)
		fmt.Fprintf(out, "Sexo:          %s\n", dash(c.Gender))
		fmt.Fprintf(out, "Nascimento:    %s (%s)\n", dash(c.BirthDate.String()), age(c, time.Now()))
		fmt.Fprintf(out, "Status:        %s\n", status(c))
		fmt.Fprintf(out, "Raça:          %s\n", dash(c.Physical.Breed))
		fmt.Fprintf(out, "Pelagem:       %s %s\n", dash(c.Physical.FurColor), c.Physical.FurLength)
		fmt.Fprintf(out, "Personalidade: %s\n", dash(c.Behavioral.Personality))
		fmt.Fprintf(out, "Comorbidades:  %s\n", dash(strings.Join(c.Comorbidities, ", ")))
		fmt.Fprintf(out, "Vacinas:       %d documento(s)\n", len(c.Vaccines))
		if c.Observations != "" {
			fmt.Fprintf(out, "\n%s\n", c.Observations)
		}

		fmt.Fprintf(out, "\nCadastro %d%% completo\n", cat.Progress(c))
		done := cat.LoadedCompletion(c)
		for _, seg := range cat.Segments {
			mark := " "
			if done[seg] {
				mark = "✓"
			}
			fmt.Fprintf(out, "  [%s] %s\n", mark, seg.Label())
		}
		return nil
	},
}, "/cats/:id")

func init() {
	GetCmd.Flags().StringVarP(&getFormat, "format", "f", types.FormatSimple, "formato de saída (simple, json)")
}
