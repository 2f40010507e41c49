package lz4block

// Outcomes of readVariableLength. A loop overrun is reported rather than
// acted upon because the literal-length call site tolerates it: the final
// literal checks catch the malformation with the right verdict.
const (
	vlOK           = iota
	vlInitialError // the cursor already sits at or past the limit
	vlLoopError    // a read advanced the cursor to or past the limit
)

// readVariableLength decodes the length extension starting at src[si]: each
// byte adds its value to the running total and a byte below 255 ends the run.
// limit is the first index the cursor may not reach; it is checked before the
// first read when initialCheck is set and after every read, including the
// terminating one, when loopCheck is set.
func readVariableLength(src []byte, si, limit int, initialCheck, loopCheck bool) (length, nsi, status int) {
	if initialCheck && si >= limit {
		return 0, si, vlInitialError
	}
	for {
		b := src[si]
		si++
		length += int(b)
		if loopCheck && si >= limit {
			return length, si, vlLoopError
		}
		if b != 255 {
			return length, si, vlOK
		}
	}
}
