// assets/embed.go
//
// Embedded data files shipped inside the binary.
//   - pieces.yaml: default catalog of tetromino rotation layouts.

package assets

import (
	"embed"
)

//go:embed pieces.yaml
var FS embed.FS

// Pieces returns the raw bytes of the embedded piece catalog.
func Pieces() ([]byte, error) {
	return FS.ReadFile("pieces.yaml")
}
