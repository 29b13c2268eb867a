package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"cattus/cmd/client/cmd/types"
)

var whoamiFormat string

var WhoamiCmd = types.Route(&cobra.Command{
	Use:   "whoami",
	Short: "Mostrar a sessão atual",
	Long: `Mostra os dados lidos do token salvo. Eles não são verificados
localmente: a API continua sendo a autoridade.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		s := app.Session()
		out := cmd.OutOrStdout()

		if whoamiFormat == types.FormatJSON {
			return types.PrintJSON(out, s.Claims)
		}

		fmt.Fprintf(out, "Nome:    %s\n", s.Claims.Name())
		fmt.Fprintf(out, "Empresa: %s\n", orDash(s.Claims.CompanyID))
		fmt.Fprintf(out, "Usuário: %s\n", orDash(s.Claims.UserID))
		fmt.Fprintf(out, "Acesso:  %s\n", orDash(s.Claims.AccessLevel))
		return nil
	},
}, "/home")

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	WhoamiCmd.Flags().StringVarP(&whoamiFormat, "format", "f", types.FormatSimple, "formato de saída (simple, json)")
}
