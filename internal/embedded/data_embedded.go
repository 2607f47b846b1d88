//go:build embedded

package embedded

import (
	"embed"
)

//go:embed loaders/*.zip
var loaders embed.FS

func getBundle(name string) []byte {
	data, err := loaders.ReadFile("loaders/" + name + ".zip")
	if err != nil {
		return nil
	}
	return data
}
