// Package embedded exposes the pre-packed loader bundles compiled into the binary.
// Normal builds carry none; build with -tags embedded after placing
// MelonLoader.zip and BepInEx.zip in internal/embedded/loaders/.
package embedded

// Bundle returns the embedded zip named <name>.zip, or nil when it isn't compiled in
func Bundle(name string) []byte {
	return getBundle(name)
}
