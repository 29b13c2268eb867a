package cats

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cattus/cmd/client/cmd/types"
)

var deleteYes bool

var DeleteCmd = types.Route(&cobra.Command{
	Use:   "delete <id>",
	Short: "Remover um gato",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if !deleteYes {
			fmt.Fprintf(cmd.OutOrStdout(), "Remover o gato %s? [s/N]: ", args[0])
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if !strings.EqualFold(strings.TrimSpace(answer), "s") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelado.")
				return nil
			}
		}

		return types.Check(cmd.Context(), app, app.API().Cats().Delete(cmd.Context(), args[0]))
	},
}, "/cats")

var favoriteOff bool

var FavoriteCmd = types.Route(&cobra.Command{
	Use:   "favorite <id>",
	Short: "Marcar ou desmarcar um gato como favorito",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		err = app.API().Cats().SetFavorite(cmd.Context(), args[0], !favoriteOff)
		return types.Check(cmd.Context(), app, err)
	},
}, "/cats")

func init() {
	DeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "não pedir confirmação")
	FavoriteCmd.Flags().BoolVar(&favoriteOff, "off", false, "desmarcar")
}
