// Package runtime executes a plugin's entry file as a child process. The
// NodeRuntime loads JavaScript entries through a fixed loader script and the
// NativeRuntime runs anything else directly. DispatchRuntime picks one from
// the entry's file extension.
package runtime
