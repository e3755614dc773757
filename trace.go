package owned

// trace emits a Debug event on the heap's trace logger, if one is set.
// Every count transition in the runtime passes through here, which makes
// slot leaks and unbalanced clone/drop pairs visible with WithTrace.
func (h *Heap) trace(msg string, args ...any) {
	if h.log == nil {
		return
	}
	h.log.Debug(msg, args...)
}
