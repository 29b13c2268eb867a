package notify

import (
	"bytes"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Success("Gato cadastrado com sucesso!")
	r.Warning("Salve os dados básicos primeiro")
	r.Error("Erro ao salvar dados do gato")
	r.Info("Conectado")

	assert.Equal(t, []Toast{
		{Level: LevelSuccess, Message: "Gato cadastrado com sucesso!"},
		{Level: LevelWarning, Message: "Salve os dados básicos primeiro"},
		{Level: LevelError, Message: "Erro ao salvar dados do gato"},
		{Level: LevelInfo, Message: "Conectado"},
	}, r.Toasts())

	drained := r.Drain()
	assert.Len(t, drained, 4)
	assert.Empty(t, r.Toasts())

	r.Push(drained[0])
	assert.Equal(t, []Toast{drained[0]}, r.Toasts())
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Info("x")
		}()
	}
	wg.Wait()
	assert.Len(t, r.Toasts(), 50)
}

func TestTerminal(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.Success("ok")
	term.Error("falhou")
	term.Warning("atenção")
	term.Info("info")

	assert.Equal(t, "✓ ok\n✗ falhou\n! atenção\ni info\n", buf.String())
}

func TestToast_String(t *testing.T) {
	assert.Equal(t, "[error] boom", Toast{Level: LevelError, Message: "boom"}.String())
}
