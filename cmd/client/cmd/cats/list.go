package cats

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cattus/cmd/client/cmd/types"
	"cattus/internal/app/client"
	"cattus/internal/domain/cat"
)

var (
	listSearch    string
	listFavorites bool
	listFormat    string
	limit         int
	offset        int
)

var ListCmd = types.Route(&cobra.Command{
	Use:   "list",
	Short: "Listar gatos",
	Long: `Lista os gatos da empresa, com busca por nome (--search) ou só os
favoritos (--favorites). Paginação com --limit e --offset.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		cats := app.API().Cats()
		page := client.Page{Offset: offset, Limit: limit}

		var list []cat.Cat
		switch {
		case listSearch != "":
			list, err = cats.Search(cmd.Context(), listSearch)
		case listFavorites:
			list, err = cats.Favorites(cmd.Context(), page)
		default:
			list, err = cats.List(cmd.Context(), page)
		}
		if err != nil {
			return types.Check(cmd.Context(), app, err)
		}

		out := cmd.OutOrStdout()
		switch listFormat {
		case types.FormatJSON:
			return types.PrintJSON(out, list)
		case types.FormatTable:
			rows := make([][]any, 0, len(list))
			now := time.Now()
			for _, c := range list {
				rows = append(rows, []any{c.ID, types.Truncate(c.Name, 30), c.Gender, age(c, now), status(c), star(c.Favorite)})
			}
			return types.Table(out, "ID\tNome\tSexo\tIdade\tStatus\tFavorito", rows)
		default:
			if len(list) == 0 {
				fmt.Fprintln(out, "Nenhum gato encontrado")
				return nil
			}
			for i, c := range list {
				fmt.Fprintf(out, "%d. %s %s (%s)\n", i+1, star(c.Favorite), c.Name, status(c))
				fmt.Fprintf(out, "   ID: %s | Sexo: %s\n", c.ID, dash(c.Gender))
			}
			return nil
		}
	},
}, "/cats")

func age(c cat.Cat, now time.Time) string {
	years := c.Age(now)
	if years < 0 {
		return "-"
	}
	return fmt.Sprintf("%d anos", years)
}

func status(c cat.Cat) string {
	if c.Sick() {
		return "doente"
	}
	return "saudável"
}

func star(favorite bool) string {
	if favorite {
		return "★"
	}
	return "☆"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	ListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "buscar por nome")
	ListCmd.Flags().BoolVar(&listFavorites, "favorites", false, "só favoritos")
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", types.FormatSimple, "formato de saída (simple, table, json)")
	ListCmd.Flags().IntVar(&limit, "limit", 50, "quantidade por página")
	ListCmd.Flags().IntVar(&offset, "offset", 0, "deslocamento da página")
}
