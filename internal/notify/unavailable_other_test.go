//go:build !linux

package notify

func isUnavailable(error) bool {
	return false
}
