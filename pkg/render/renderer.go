package render

import (
	"context"

	"github.com/goliatone/go-autoform/pkg/model"
)

// Renderer turns a resolved form model into bytes (HTML, JSON, terminal
// transcript).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
