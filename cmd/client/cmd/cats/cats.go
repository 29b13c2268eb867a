package cats

import (
	"github.com/spf13/cobra"
)

// CatsCmd - родительская команда для работы с карточками котов
var CatsCmd = &cobra.Command{
	Use:   "cats",
	Short: "Cadastro de gatos",
	Long: `Listar, consultar, cadastrar, editar e remover gatos do abrigo.

O cadastro segue as etapas do formulário: dados básicos, características
físicas, comportamento e carteira de vacinação. Só os dados básicos criam
o registro; as demais etapas atualizam um gato já salvo.`,
}
