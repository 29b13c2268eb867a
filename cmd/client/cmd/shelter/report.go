package shelter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cattus/cmd/client/cmd/types"
)

var output string

var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Relatórios dos gatos",
}

var ReportDownloadCmd = types.Route(&cobra.Command{
	Use:   "download <cat-id>",
	Short: "Baixar o relatório em PDF de um gato",
	Long: `Salva o relatório no arquivo indicado por --output, ou com o nome
sugerido pelo servidor no diretório atual. Use "-o -" para a saída padrão.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if output == "-" {
			_, err := app.API().DownloadReport(cmd.Context(), args[0], cmd.OutOrStdout())
			return types.Check(cmd.Context(), app, err)
		}

		report, err := app.API().Report(cmd.Context(), args[0])
		if err != nil {
			return types.Check(cmd.Context(), app, err)
		}
		defer report.Close()

		path := output
		if path == "" {
			path = filepath.Base(report.Filename)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("erro ao criar arquivo: %w", err)
		}
		n, err := io.Copy(f, report.Body)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
			return fmt.Errorf("erro ao salvar relatório: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Relatório salvo em %s (%d bytes)\n", path, n)
		return nil
	},
}, "/reports")

func init() {
	ReportDownloadCmd.Flags().StringVarP(&output, "output", "o", "", "arquivo de destino")
}
