// Package process launches programs detached from the calling process and
// terminates them by image name.
//
// The launcher strategy is chosen at build time. On Windows the target is
// created directly in a new process group without a console, and its handle
// is released right away. Elsewhere the launcher performs a double fork: Go
// cannot fork without exec, so the first fork is an intermediate copy of the
// current binary (started through the hidden SpawnCommand) which starts the
// target in a new session and exits at once. The launcher reaps the
// intermediate, leaving the target orphaned and adopted by init.
//
// Termination shells out to the platform's bulk-kill tool: pkill on POSIX
// systems and taskkill on Windows. Both kill without a grace period.
package process
