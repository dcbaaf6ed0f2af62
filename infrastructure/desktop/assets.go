package desktop

import (
	"embed"
	"io/fs"
)

//go:embed frontend/index.html frontend/main.js frontend/style.css
var frontendFS embed.FS

// Assets returns the window's HTML, script and stylesheet rooted at the frontend directory
func Assets() fs.FS {
	sub, err := fs.Sub(frontendFS, "frontend")
	if err != nil {
		panic(err)
	}
	return sub
}
