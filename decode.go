package lz4block

const (
	minMatch = 4 // the smallest match length the format can express

	// End-of-block restrictions the encoder must honor. The decoder relies
	// on them to copy in wide chunks without per-byte checks.
	wildCopyLength         = 8
	lastLiterals           = 5
	mfLimit                = wildCopyLength + minMatch // 12
	matchSafeguardDistance = 2*wildCopyLength - minMatch
	fastLoopSafeDistance   = 64

	mlBits  = 4
	mlMask  = 1<<mlBits - 1
	runMask = mlMask

	// winSize is the maximum distance a match can reach back.
	winSize = 1 << 16

	hasError = -2
)

// sequence carries a partially decoded sequence across the hand-off from the
// fast loop to the safe loop.
type sequence struct {
	token    byte
	litLen   int
	matchLen int
	offset   int
}

// resumePoint tells the safe loop where within a sequence to pick up.
type resumePoint uint8

const (
	resumeToken    resumePoint = iota // parse a fresh token
	resumeLiterals                    // literal length known, literals not copied yet
	resumeMatch                       // match length and offset final, match not copied yet
)

// decoder is the per-call state shared by the two decode loops.
type decoder struct {
	src, dst []byte
	si, di   int

	diStart    int    // first output position; the region below it is prefix content
	winLow     int    // lowest valid match position, possibly negative
	inBlockLow int    // lowest match position readable directly from dst
	window     []byte // content addressed by match positions below diStart, unless in-place
	safeInput  bool   // input length is untrusted and fully bounds-checked
	partial    bool   // filling the destination is success, not an error

	checkOffset bool
}

// decodeGeneric is the engine behind every entry point. For bounds-checked
// input it returns the number of bytes written past the prefix; for trusted
// input it returns the number of bytes read from src. Any malformation
// yields hasError.
func decodeGeneric(dst, src []byte, safeInput, partial bool, dict dictContext) (ret int) {
	// Restrict capacities so no copy can spill past the declared regions.
	dst = dst[:len(dst):len(dst)]
	src = src[:len(src):len(src)]

	// Trusted-input mode elides most checks; residual out-of-range accesses
	// on malformed data surface here as a decoding error.
	defer func() {
		if recover() != nil {
			ret = hasError
		}
	}()

	window, prefixLen := dict.preceding()
	if prefixLen > len(dst) {
		return hasError
	}
	d := &decoder{
		src:       src,
		dst:       dst,
		di:        prefixLen,
		diStart:   prefixLen,
		window:    window,
		safeInput: safeInput,
		partial:   partial,
	}
	d.winLow = lowWindow(d.diStart, prefixLen, window)
	if window != nil {
		d.inBlockLow = d.diStart
	} else {
		d.inBlockLow = d.winLow
	}
	d.checkOffset = safeInput && d.diStart-d.winLow < winSize

	if len(dst)-d.diStart == 0 {
		// A zero-size destination accepts only the one-byte encoding of an
		// empty block, or anything at all when truncation is allowed.
		if partial {
			return 0
		}
		if safeInput {
			if len(src) == 1 && src[0] == 0 {
				return 0
			}
			return hasError
		}
		if len(src) > 0 && src[0] == 0 {
			return 1
		}
		return hasError
	}
	if safeInput && len(src) == 0 {
		return hasError
	}

	resume, seq := resumeToken, sequence{}
	if safeInput && len(dst)-d.di >= fastLoopSafeDistance {
		var failed bool
		resume, seq, failed = d.fastLoop()
		if failed {
			return hasError
		}
	}
	return d.safeLoop(resume, seq)
}

func (d *decoder) result() int {
	if d.safeInput {
		return d.di - d.diStart
	}
	return d.si
}

// fastLoop decodes sequences while at least fastLoopSafeDistance bytes of
// output space remain, using wide unconditional copies. It never completes a
// block on its own: it either fails or hands the current position, possibly
// mid-sequence, to the safe loop.
func (d *decoder) fastLoop() (resumePoint, sequence, bool) {
	src, dst := d.src, d.dst
	for {
		token := src[d.si]
		d.si++
		length := int(token >> 4)

		if length == runMask {
			v, si, status := readVariableLength(src, d.si, len(src)-runMask, true, true)
			if status == vlInitialError {
				return 0, sequence{}, true
			}
			// A loop overrun is resolved by the safe loop's final-literal
			// checks, which the exit below necessarily reaches.
			d.si = si
			length += v
			if d.di+length > len(dst)-32 || d.si+length > len(src)-32 {
				return resumeLiterals, sequence{token: token, litLen: length}, false
			}
			wildCopy32(dst, d.di, src, d.si, d.di+length)
			d.si += length
			d.di += length
		} else {
			// Short literals: copy a full 16-byte stripe and step by the
			// true length.
			if d.si > len(src)-(16+1) {
				return resumeLiterals, sequence{token: token, litLen: length}, false
			}
			copy(dst[d.di:d.di+16], src[d.si:d.si+16])
			d.si += length
			d.di += length
		}

		offset := int(readUint16(src, d.si))
		d.si += 2
		match := d.di - offset

		length = int(token & mlMask)
		if length == mlMask {
			if d.checkOffset && (offset == 0 || match < d.winLow) {
				return 0, sequence{}, true
			}
			v, si, status := readVariableLength(src, d.si, len(src)-lastLiterals+1, false, true)
			if status != vlOK {
				return 0, sequence{}, true
			}
			d.si = si
			length += v + minMatch
			if d.di+length >= len(dst)-fastLoopSafeDistance {
				return resumeMatch, sequence{matchLen: length, offset: offset}, false
			}
		} else {
			length += minMatch
			if d.di+length >= len(dst)-fastLoopSafeDistance {
				return resumeMatch, sequence{matchLen: length, offset: offset}, false
			}
			if offset >= wildCopyLength && match >= d.inBlockLow {
				// Non-overlapping short match: three fixed stripes cover
				// the longest possible copy.
				copy(dst[d.di:d.di+8], dst[match:match+8])
				copy(dst[d.di+8:d.di+16], dst[match+8:match+16])
				copy(dst[d.di+16:d.di+18], dst[match+16:match+18])
				d.di += length
				continue
			}
		}

		if d.checkOffset && (offset == 0 || match < d.winLow) {
			return 0, sequence{}, true
		}
		if d.window != nil && match < d.diStart {
			if !d.windowCopy(match, length) {
				return 0, sequence{}, true
			}
			continue
		}

		cpy := d.di + length
		if offset < 16 {
			// 16-byte stripes would overlap destructively; seed one chunk
			// and continue with phase-preserving 8-byte chunks.
			if offset < wildCopyLength {
				repeat8(dst, d.di, match, offset)
				match = d.di + wildCopyLength - repeatStep(offset)
			} else {
				copy(dst[d.di:d.di+8], dst[match:match+8])
				match += 8
			}
			d.di += 8
			if d.di < cpy {
				wildCopy8(dst, d.di, dst, match, cpy)
			}
		} else {
			wildCopy32(dst, d.di, dst, match, cpy)
		}
		d.di = cpy
	}
}

// safeLoop decodes sequences with exact bounds checks and handles block
// termination. resume selects the mid-sequence entry point when the fast
// loop handed over partway through.
func (d *decoder) safeLoop(resume resumePoint, seq sequence) int {
	src, dst := d.src, d.dst

	// Entry thresholds for the two-stage shortcut below.
	shortSrcEnd := len(src) - (14 + 2)        // max short literals + offset
	shortDstEnd := len(dst) - (14 + 18)       // max short literals + match stripe
	matchLimit := len(src) - lastLiterals + 1 // variable-length bound for matches
	literalLimit := len(src) - runMask        // variable-length bound for literals

	var (
		token  byte
		length int
		offset int
		match  int
	)
	switch resume {
	case resumeLiterals:
		token, length = seq.token, seq.litLen
	case resumeMatch:
		length, offset = seq.matchLen, seq.offset
	}

	for {
		var skipLiterals, matchResolved bool

		switch resume {
		case resumeLiterals:
			// Token parsed and literal length final; fall through to the
			// literal copy.
			resume = resumeToken
		case resumeMatch:
			match = d.di - offset
			skipLiterals = true
			matchResolved = true
			resume = resumeToken
		default:
			token = src[d.si]
			d.si++
			length = int(token >> 4)

			// Two-stage shortcut for the common case: literals short enough
			// for one stripe followed by a short in-block match.
			short := d.di <= shortDstEnd
			if d.safeInput {
				short = short && length != runMask && d.si < shortSrcEnd
			} else {
				short = short && length <= 8 && d.si+16 <= len(src)
			}
			if short {
				if d.safeInput {
					copy(dst[d.di:d.di+16], src[d.si:d.si+16])
				} else {
					copy(dst[d.di:d.di+8], src[d.si:d.si+8])
				}
				d.di += length
				d.si += length

				length = int(token & mlMask)
				offset = int(readUint16(src, d.si))
				d.si += 2
				match = d.di - offset

				if length != mlMask && offset >= wildCopyLength && match >= d.inBlockLow {
					copy(dst[d.di:d.di+8], dst[match:match+8])
					copy(dst[d.di+8:d.di+16], dst[match+8:match+16])
					copy(dst[d.di+16:d.di+18], dst[match+16:match+18])
					d.di += length + minMatch
					continue
				}
				// The match info is already decoded; only its copy remains.
				skipLiterals = true
				break
			}

			if length == runMask {
				v, si, status := readVariableLength(src, d.si, literalLimit, d.safeInput, d.safeInput)
				if status == vlInitialError {
					return hasError
				}
				// A loop overrun lands in the final-literal checks below
				// with the cursor at the limit, which rejects it.
				d.si = si
				length += v
			}
		}

		if !skipLiterals {
			cpy := d.di + length
			var terminal bool
			if d.safeInput {
				terminal = cpy > len(dst)-mfLimit || d.si+length > len(src)-(2+1+lastLiterals)
			} else {
				terminal = cpy > len(dst)-wildCopyLength
			}
			if terminal {
				if d.partial {
					// Truncate to the destination, but the input must still
					// end exactly here when it runs out.
					if d.si+length > len(src)-(2+1+lastLiterals) && d.si+length != len(src) {
						return hasError
					}
					if cpy > len(dst) {
						length = len(dst) - d.di
						cpy = len(dst)
					}
				} else if d.safeInput {
					// The last sequence is literals only and consumes the
					// input exactly.
					if d.si+length != len(src) || cpy > len(dst) {
						return hasError
					}
				} else if cpy != len(dst) {
					return hasError
				}
				copy(dst[d.di:d.di+length], src[d.si:d.si+length])
				d.si += length
				d.di = cpy
				if !d.partial || d.di == len(dst) || d.si == len(src) {
					return d.result()
				}
			} else {
				wildCopy8(dst, d.di, src, d.si, cpy)
				d.si += length
				d.di = cpy
			}

			offset = int(readUint16(src, d.si))
			d.si += 2
			match = d.di - offset
			length = int(token & mlMask)
		}

		if !matchResolved {
			if length == mlMask {
				v, si, status := readVariableLength(src, d.si, matchLimit, false, d.safeInput)
				if status != vlOK {
					return hasError
				}
				d.si = si
				length += v
			}
			length += minMatch
		}

		if d.checkOffset && (offset == 0 || match < d.winLow) {
			return hasError
		}
		if d.window != nil && match < d.diStart {
			if !d.windowCopy(match, length) {
				return hasError
			}
			if d.partial && d.di == len(dst) {
				return d.result()
			}
			continue
		}

		cpy := d.di + length

		// Partial decoding may stop anywhere within a match.
		if d.partial && cpy > len(dst)-matchSafeguardDistance {
			mlen := length
			if rest := len(dst) - d.di; mlen > rest {
				mlen = rest
			}
			if match+mlen > d.di {
				// The copy overlaps the bytes it produces.
				for i := 0; i < mlen; i++ {
					dst[d.di+i] = dst[match+i]
				}
			} else {
				copy(dst[d.di:d.di+mlen], dst[match:match+mlen])
			}
			d.di += mlen
			if d.di == len(dst) {
				return d.result()
			}
			continue
		}

		if offset < wildCopyLength {
			repeat8(dst, d.di, match, offset)
			match = d.di + wildCopyLength - repeatStep(offset)
		} else {
			copy(dst[d.di:d.di+8], dst[match:match+8])
			match += 8
		}
		d.di += 8

		if cpy > len(dst)-matchSafeguardDistance {
			// The copy approaches the end of the block: finish with exact
			// chunks and a byte tail instead of overshooting.
			if cpy > len(dst)-lastLiterals {
				return hasError
			}
			if limit := len(dst) - (wildCopyLength - 1); d.di < limit {
				wildCopy8(dst, d.di, dst, match, limit)
				match += limit - d.di
				d.di = limit
			}
			for d.di < cpy {
				dst[d.di] = dst[match]
				d.di++
				match++
			}
		} else {
			copy(dst[d.di:d.di+8], dst[match:match+8])
			if length > 16 {
				wildCopy8(dst, d.di+8, dst, match+8, cpy)
			}
		}
		d.di = cpy
	}
}

// windowCopy copies a match that starts before the output, splitting it when
// it spans the window and the block. It reports failure when the copy would
// break the end-of-block restriction and truncation is not allowed.
func (d *decoder) windowCopy(match, length int) bool {
	dst := d.dst
	if d.di+length > len(dst)-lastLiterals {
		if !d.partial {
			return false
		}
		if rest := len(dst) - d.di; length > rest {
			length = rest
		}
	}
	ahead := d.diStart - match // bytes served from the window
	if length <= ahead {
		m := len(d.window) - ahead
		copy(dst[d.di:d.di+length], d.window[m:m+length])
		d.di += length
		return true
	}
	copy(dst[d.di:d.di+ahead], d.window[len(d.window)-ahead:])
	d.di += ahead
	rest := length - ahead
	if rest > d.di-d.diStart {
		// The remainder overlaps the bytes being produced.
		for s, end := d.diStart, d.di+rest; d.di < end; d.di, s = d.di+1, s+1 {
			dst[d.di] = dst[s]
		}
	} else {
		copy(dst[d.di:d.di+rest], dst[d.diStart:d.diStart+rest])
		d.di += rest
	}
	return true
}
