package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Container собирает цепочки мидлварей для групп операций. Базовые
// мидлвари (например, логгер) попадают в начало каждой цепочки.
type Container struct {
	base    huma.Middlewares
	pending huma.Middlewares
}

func NewContainer(base ...func(huma.Context, func(huma.Context))) *Container {
	return &Container{base: base}
}

// Add добавляет мидлварь в текущую цепочку
func (mc *Container) Add(middleware func(ctx huma.Context, next func(huma.Context))) *Container {
	mc.pending = append(mc.pending, middleware)
	return mc
}

// Build возвращает базовые мидлвари плюс добавленные и начинает новую цепочку
func (mc *Container) Build() huma.Middlewares {
	out := make(huma.Middlewares, 0, len(mc.base)+len(mc.pending))
	out = append(out, mc.base...)
	out = append(out, mc.pending...)
	mc.pending = nil
	return out
}
