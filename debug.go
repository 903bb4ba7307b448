package xilcore

// DebugBreak is the Go rendering of spec.md §9's attribute-driven
// decompiler hook: in the original, a method is marked with metadata
// so the decompiler triggers a breakpoint when it encounters the call.
// Here that becomes an explicit, otherwise-no-op function the
// decompiler is expected to recognize by name; the core depends only
// on its presence, never on how a given toolchain instruments it.
func DebugBreak(reason string) {
	_ = reason
}
