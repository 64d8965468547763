//go:build !windows

package process

// pkill exits with 1 when no process matched.
const noMatchExitCode = 1

func killCommand(pattern string) (string, []string) {
	return "pkill", []string{"-KILL", "-i", globPattern(pattern)}
}
