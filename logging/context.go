package logging

import "context"

type debugModeKey struct{}

// EnableDebugMode returns a context whose CDebug* calls log regardless of the logger level. The tag
// names the debug session and defaults to "debug".
func EnableDebugMode(ctx context.Context, tag string) context.Context {
	if tag == "" {
		tag = "debug"
	}
	return context.WithValue(ctx, debugModeKey{}, tag)
}

// IsDebugMode reports whether ctx came from EnableDebugMode.
func IsDebugMode(ctx context.Context) bool {
	return DebugTag(ctx) != ""
}

// DebugTag returns the tag given to EnableDebugMode, or "".
func DebugTag(ctx context.Context) string {
	tag, _ := ctx.Value(debugModeKey{}).(string)
	return tag
}
