package shelter

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cattus/cmd/client/cmd/types"
	"cattus/internal/domain/shelter"
)

var unreadOnly bool

var NotificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Notificações da empresa",
}

var NotificationsListCmd = types.Route(&cobra.Command{
	Use:   "list",
	Short: "Listar notificações",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		list, err := app.API().Notifications().List(cmd.Context(), app.Session().Claims.CompanyID)
		if err != nil {
			return types.Check(cmd.Context(), app, err)
		}
		unread := shelter.Unread(list)
		if unreadOnly {
			list = unread
		}

		out := cmd.OutOrStdout()
		if format == types.FormatJSON {
			return types.PrintJSON(out, list)
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "Nenhuma notificação")
			return nil
		}
		fmt.Fprintf(out, "%d não lida(s)\n\n", len(unread))
		for _, n := range list {
			printNotification(out, n)
		}
		return nil
	},
}, "/notifications")

var NotificationsWatchCmd = types.Route(&cobra.Command{
	Use:   "watch",
	Short: "Acompanhar notificações em tempo real",
	Long:  `Mantém a conexão com o servidor e mostra cada notificação recebida até Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Aguardando notificações (Ctrl+C para sair)...")
		err = app.WatchNotifications(ctx, func(n shelter.Notification) {
			printNotification(out, n)
		})
		if err != nil && ctx.Err() == nil {
			return types.Check(cmd.Context(), app, err)
		}
		if ctx.Err() == nil {
			fmt.Fprintln(out, "Conexão encerrada pelo servidor")
		}
		return nil
	},
}, "/notifications")

func printNotification(w io.Writer, n shelter.Notification) {
	mark := " "
	if n.Unread() {
		mark = color.New(color.FgYellow).Sprint("●")
	}
	fmt.Fprintf(w, "%s %s  %s\n", mark, n.Date.Local().Format(timeLayout), n.Description)
	if n.Origin != "" {
		fmt.Fprintf(w, "  origem: %s\n", n.Origin)
	}
}

func init() {
	NotificationsListCmd.Flags().BoolVar(&unreadOnly, "unread", false, "só não lidas")
	NotificationsListCmd.Flags().StringVarP(&format, "format", "f", types.FormatSimple, "formato de saída (simple, json)")
}
