// Package types carries what the client commands share: the App stored in
// the command context, output helpers and the session error mapping.
package types

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cattus/internal/app/client"
)

type contextKey string

const ClientAppKey contextKey = "app"

// RouteAnnotation maps a command to the page it stands for; the route guard
// runs on it before the command.
const RouteAnnotation = "route"

var (
	ErrNoApp         = errors.New("приложение не инициализировано")
	ErrLoginRequired = errors.New("sessão não encontrada, execute: cattus auth login")
	ErrSessionExpire = errors.New("sessão expirada, execute: cattus auth login")
)

func WithApp(ctx context.Context, app *client.App) context.Context {
	return context.WithValue(ctx, ClientAppKey, app)
}

// App returns the App set up by the root command.
func App(cmd *cobra.Command) (*client.App, error) {
	if cmd.Context() == nil {
		return nil, ErrNoApp
	}
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, ErrNoApp
	}
	return app, nil
}

// Route annotates cmd with the page it stands for.
func Route(cmd *cobra.Command, route string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[RouteAnnotation] = route
	return cmd
}

// Check turns an API error into the command error. A rejected token ends
// the local session.
func Check(ctx context.Context, app *client.App, err error) error {
	if err == nil {
		return nil
	}
	if app.Expire(ctx, err) {
		return ErrSessionExpire
	}
	return err
}

// Output formats.
const (
	FormatSimple = "simple"
	FormatTable  = "table"
	FormatJSON   = "json"
)

func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes tab separated rows under a header.
func Table(w io.Writer, header string, rows [][]any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
