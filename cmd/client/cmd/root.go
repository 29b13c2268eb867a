package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"cattus/cmd/client/cmd/auth"
	"cattus/cmd/client/cmd/cats"
	"cattus/cmd/client/cmd/shelter"
	"cattus/cmd/client/cmd/types"
	"cattus/internal/app/client"
	"cattus/internal/app/client/notify"
	"cattus/internal/config"
	"cattus/internal/domain/guard"
	"cattus/internal/utils/logger"
)

var (
	cfgFile string
	apiURL  string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "cattus",
	Short: "Cattus - cliente de terminal do abrigo",
	Long: `Cattus é o cliente de terminal do sistema de gestão do abrigo:
gatos, câmeras, atividades, notificações e relatórios.

Entre com "cattus auth login" antes de usar os demais comandos.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("erro ao carregar configuração: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	level := "warn"
	if debug {
		level = "debug"
	}
	log := logger.WithLevel(cfg.Env, level)

	app := client.New(cfg, log, notify.NewTerminal(cmd.OutOrStdout()))
	cmd.SetContext(types.WithApp(cmd.Context(), app))

	// Guard: same decision as for pages.
	if route, ok := cmd.Annotations[types.RouteAnnotation]; ok {
		d := guard.Check(route, app.IsAuthenticated())
		if !d.Allowed() {
			log.Debug("guard redirect", slog.String("command", cmd.CommandPath()), slog.String("redirect", d.Redirect))
			return types.ErrLoginRequired
		}
	}
	return nil
}

func closeApp(cmd *cobra.Command, _ []string) error {
	app, err := types.App(cmd)
	if err != nil {
		return nil
	}
	return app.Close()
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		viper.AddConfigPath(filepath.Join(home, ".cattus"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return config.MustLoad(), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "arquivo de configuração")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "URL da API do abrigo")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "logs de depuração")

	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd, auth.LogoutCmd, auth.WhoamiCmd, auth.ForgotPasswordCmd)

	rootCmd.AddCommand(cats.CatsCmd)
	cats.CatsCmd.AddCommand(cats.ListCmd, cats.GetCmd, cats.AddCmd, cats.EditCmd, cats.DeleteCmd, cats.FavoriteCmd)

	rootCmd.AddCommand(shelter.CamerasCmd, shelter.ActivitiesCmd, shelter.NotificationsCmd, shelter.ReportCmd, shelter.FeedbackCmd)
	shelter.CamerasCmd.AddCommand(shelter.CamerasListCmd)
	shelter.ActivitiesCmd.AddCommand(shelter.ActivitiesListCmd)
	shelter.NotificationsCmd.AddCommand(shelter.NotificationsListCmd, shelter.NotificationsWatchCmd)
	shelter.ReportCmd.AddCommand(shelter.ReportDownloadCmd)
}
