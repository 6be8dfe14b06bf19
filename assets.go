package autoform

import (
	"io/fs"

	"github.com/goliatone/go-autoform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the default stylesheet so Go applications can serve it.
//
// Typical mount:
//
//	mux.Handle("/autoform/",
//	  http.StripPrefix("/autoform/",
//	    http.FileServerFS(autoform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
