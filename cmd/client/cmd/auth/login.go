package auth

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"cattus/cmd/client/cmd/types"
	"cattus/internal/domain/guard"
	"cattus/internal/domain/user"
)

var (
	email      string
	rememberMe bool
)

var LoginCmd = types.Route(&cobra.Command{
	Use:   "login",
	Short: "Entrar no Cattus",
	Long: `Autenticação na API do abrigo.

O token fica salvo localmente por 1 dia, ou 7 com --remember.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		in := bufio.NewReader(cmd.InOrStdin())
		creds := user.Credentials{Email: email}
		if creds.Email == "" {
			if creds.Email, err = prompt(in, cmd.OutOrStdout(), "Email: "); err != nil {
				return fmt.Errorf("erro ao ler email: %w", err)
			}
		}
		if creds.Password, err = readPassword(cmd, in); err != nil {
			return fmt.Errorf("erro ao ler senha: %w", err)
		}

		s, err := app.Login(cmd.Context(), creds, rememberMe)
		if err != nil {
			return fmt.Errorf("falha na autenticação: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Bem-vindo ao Cattus, %s!\n", s.Claims.Name())
		return nil
	},
}, guard.LoginPath)

var LogoutCmd = types.Route(&cobra.Command{
	Use:   "logout",
	Short: "Sair e apagar o token salvo",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("erro ao sair: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada.")
		return nil
	},
}, guard.LoginPath)

var ForgotPasswordCmd = types.Route(&cobra.Command{
	Use:   "forgot-password",
	Short: "Pedir a recuperação de senha",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		addr := email
		if addr == "" {
			if addr, err = prompt(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), "Email: "); err != nil {
				return fmt.Errorf("erro ao ler email: %w", err)
			}
		}
		return app.ForgotPassword(cmd.Context(), addr)
	},
}, guard.LoginPath)

func init() {
	LoginCmd.Flags().StringVarP(&email, "email", "e", "", "email de acesso")
	LoginCmd.Flags().BoolVarP(&rememberMe, "remember", "r", false, "lembrar de mim por 7 dias")
	ForgotPasswordCmd.Flags().StringVarP(&email, "email", "e", "", "email de acesso")
}
