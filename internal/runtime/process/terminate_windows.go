//go:build windows

package process

// taskkill exits with 128 when no process matched the image name.
const noMatchExitCode = 128

func killCommand(pattern string) (string, []string) {
	return "taskkill", []string{"/F", "/IM", pattern}
}
