package lz4block

// dictKind selects how matches reaching before the start of the output are
// resolved. Exactly one kind applies to a whole decode call.
type dictKind uint8

const (
	// dictNone rejects any match reaching before the output start.
	dictNone dictKind = iota
	// dictPrefix serves such matches from dst[:prefixLen], which holds
	// previously decoded content immediately preceding the output.
	dictPrefix
	// dictExternal serves them from a separate window buffer whose end
	// logically abuts the output start.
	dictExternal
	// dictDelegated behaves like dictExternal with the window borrowed
	// from another context, as when decoding against a shared dictionary.
	dictDelegated
)

// dictContext describes the content preceding the block being decoded.
// The zero value means no preceding content.
type dictContext struct {
	kind      dictKind
	prefixLen int
	window    []byte
	delegate  *dictContext
}

// preceding resolves the context to an external window and an in-place
// prefix length. At most one of the two is non-zero.
func (d *dictContext) preceding() (window []byte, prefixLen int) {
	switch d.kind {
	case dictPrefix:
		return nil, d.prefixLen
	case dictExternal:
		window = d.window
	case dictDelegated:
		if d.delegate != nil {
			window, _ = d.delegate.preceding()
		}
	}
	if len(window) == 0 {
		window = nil
	}
	return window, 0
}

// lowWindow returns the lowest match position a block may reference, in
// output coordinates: positions in [lowWindow, diStart) address preceding
// content, positions below lowWindow are invalid.
func lowWindow(diStart, prefixLen int, window []byte) int {
	if prefixLen > 0 {
		return diStart - prefixLen
	}
	return -len(window)
}
