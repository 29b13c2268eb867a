// Package shelter holds the commands around the cat records: cameras,
// activities, notifications, reports and feedback.
package shelter

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cattus/cmd/client/cmd/types"
	"cattus/internal/app/client"
	"cattus/internal/domain/shelter"
)

const timeLayout = "02/01/2006 15:04"

var (
	format string
	limit  int
	offset int
	catID  string
)

var CamerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Câmeras do abrigo",
}

var CamerasListCmd = types.Route(&cobra.Command{
	Use:   "list",
	Short: "Listar câmeras",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		cams, err := app.API().Cameras().List(cmd.Context(), client.Page{Offset: offset, Limit: limit})
		if err != nil {
			return types.Check(cmd.Context(), app, err)
		}

		out := cmd.OutOrStdout()
		switch format {
		case types.FormatJSON:
			return types.PrintJSON(out, cams)
		case types.FormatTable:
			rows := make([][]any, 0, len(cams))
			for _, c := range cams {
				rows = append(rows, []any{c.ID, types.Truncate(c.Name, 30), c.URL})
			}
			return types.Table(out, "ID\tNome\tURL", rows)
		default:
			if len(cams) == 0 {
				fmt.Fprintln(out, "Nenhuma câmera cadastrada")
				return nil
			}
			for i, c := range cams {
				fmt.Fprintf(out, "%d. %s\n   ID: %s | %s\n", i+1, c.Name, c.ID, c.URL)
			}
			return nil
		}
	},
}, "/cameras")

var ActivitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Atividades registradas pelas câmeras",
}

var ActivitiesListCmd = types.Route(&cobra.Command{
	Use:   "list",
	Short: "Listar atividades",
	Long:  `Lista as atividades de um gato (--cat) ou de toda a empresa.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		page := client.Page{Offset: offset, Limit: limit}
		activities := app.API().Activities()

		var list []shelter.Activity
		if catID != "" {
			list, err = activities.ByCat(cmd.Context(), catID, page)
		} else {
			list, err = activities.ByCompany(cmd.Context(), app.Session().Claims.CompanyID, page)
		}
		if err != nil {
			return types.Check(cmd.Context(), app, err)
		}

		out := cmd.OutOrStdout()
		if format == types.FormatJSON {
			return types.PrintJSON(out, list)
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "Nenhuma atividade registrada")
			return nil
		}
		rows := make([][]any, 0, len(list))
		for _, a := range list {
			rows = append(rows, []any{a.ID, a.Cat, a.Camera, a.StartTime.Local().Format(timeLayout), duration(a)})
		}
		return types.Table(out, "ID\tGato\tCâmera\tInício\tDuração", rows)
	},
}, "/streaming/:id")

func duration(a shelter.Activity) string {
	d := a.Duration()
	if d == 0 {
		return "em andamento"
	}
	return d.Round(time.Second).String()
}

var FeedbackCmd = types.Route(&cobra.Command{
	Use:     "feedback <texto>",
	Short:   "Enviar feedback",
	Example: `  cattus feedback "A busca poderia aceitar a raça"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		claims := app.Session().Claims
		return app.API().SubmitFeedback(cmd.Context(), shelter.Feedback{
			Text:    strings.Join(args, " "),
			Author:  claims.UserID,
			Company: claims.CompanyID,
		})
	},
}, "/home")

func init() {
	for _, c := range []*cobra.Command{CamerasListCmd, ActivitiesListCmd} {
		c.Flags().StringVarP(&format, "format", "f", types.FormatSimple, "formato de saída (simple, table, json)")
		c.Flags().IntVar(&limit, "limit", 50, "quantidade por página")
		c.Flags().IntVar(&offset, "offset", 0, "deslocamento da página")
	}
	ActivitiesListCmd.Flags().StringVar(&catID, "cat", "", "id do gato")
}
