// Package web embeds the static page shell served on navigation routes.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
