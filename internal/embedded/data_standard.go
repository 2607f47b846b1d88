//go:build !embedded

package embedded

// Stub implementations for normal builds without embedded bundles.

func getBundle(name string) []byte {
	return nil
}
