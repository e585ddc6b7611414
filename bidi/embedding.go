package bidi

// --- Explicit embeddings (X1–X9) -------------------------------------------

type embedding struct {
	dir    Category // one of LRE, RLE, LRO, RLO, PDF
	source EmbeddingSource
}

// Embed buffers an explicit embedding. dir has to be one of the explicit
// formatting categories (LRE, RLE, LRO, RLO or PDF). Clients use this for
// embeddings declared by markup. Embeddings are applied when resolution
// advances to the next character.
func (r *Resolver) Embed(dir Category, source EmbeddingSource) {
	if !dir.isExplicitEmbedding() {
		T().Errorf("bidi: %s is not an explicit embedding", dir)
		return
	}
	r.embed(dir, source)
}

func (r *Resolver) embed(dir Category, source EmbeddingSource) {
	// isolated content computes its embeddings in its own resolution pass
	if r.InIsolate() {
		return
	}
	r.explicitSequence = append(r.explicitSequence, embedding{dir: dir, source: source})
}

// commitExplicitEmbedding applies all buffered embeddings to the current
// context and closes the run under construction if the level changes.
// It returns true if the embedding level changed.
func (r *Resolver) commitExplicitEmbedding() bool {
	defer func() { r.explicitSequence = r.explicitSequence[:0] }()
	if r.InIsolate() {
		return false
	}
	from := r.status.Context
	to := from
	for _, e := range r.explicitSequence {
		if e.dir == PopDirectionalFormat {
			if parent := to.Pop(); parent != nil {
				to = parent
			}
			continue
		}
		dir := LTR
		if e.dir == RightToLeftEmbedding || e.dir == RightToLeftOverride {
			dir = RTL
		}
		override := e.dir == LeftToRightOverride || e.dir == RightToLeftOverride
		level := to.Level()
		if dir == RTL {
			level = nextGreaterOddLevel(level)
		} else {
			level = nextGreaterEvenLevel(level)
		}
		to = to.Push(level, dir, override, e.source)
	}
	fromLevel, toLevel := from.Level(), to.Level()
	if toLevel > fromLevel {
		r.raiseExplicitEmbeddingLevel(directionOf(fromLevel).Category(), directionOf(toLevel).Category())
	} else if toLevel < fromLevel {
		r.lowerExplicitEmbeddingLevel(directionOf(fromLevel).Category())
	}
	r.status.Context = to
	if fromLevel != toLevel {
		T().Debugf("bidi: embedding level %d -> %d", fromLevel, toLevel)
	}
	return fromLevel != toLevel
}

func (r *Resolver) checkDirectionInLowerRaiseEmbeddingLevel() {
	if r.direction == OtherNeutral {
		if r.status.LastStrong == LeftToRight {
			r.direction = LeftToRight
		} else {
			r.direction = RightToLeft
		}
	}
}

func (r *Resolver) lowerExplicitEmbeddingLevel(from Category) {
	if !r.emptyRun && !r.eor.Equal(r.last) {
		r.checkDirectionInLowerRaiseEmbeddingLevel()
		// sor … eor … last: append the sor–eor run or extend it through last
		if from == LeftToRight {
			if r.status.Eor == EuropeanNumber {
				if r.status.LastStrong != LeftToRight {
					r.direction = EuropeanNumber
					r.appendRun()
				}
			} else if r.status.Eor == ArabicNumber {
				r.direction = ArabicNumber
				r.appendRun()
			} else if r.status.LastStrong != LeftToRight {
				r.appendRun()
				r.direction = LeftToRight
			}
		} else if r.status.Eor == EuropeanNumber || r.status.Eor == ArabicNumber ||
			r.status.LastStrong == LeftToRight {
			r.appendRun()
			r.direction = RightToLeft
		}
		r.eor = r.last
	}
	r.appendRun()
	r.emptyRun = true
	// sor for the new run is determined by the higher level (X10)
	r.status.Last = from
	r.status.LastStrong = from
	r.eor = Iterator{}
}

func (r *Resolver) raiseExplicitEmbeddingLevel(from, to Category) {
	if !r.emptyRun && !r.eor.Equal(r.last) {
		r.checkDirectionInLowerRaiseEmbeddingLevel()
		if to == LeftToRight {
			if r.status.Eor == EuropeanNumber {
				if r.status.LastStrong != LeftToRight {
					r.direction = EuropeanNumber
					r.appendRun()
				}
			} else if r.status.Eor == ArabicNumber {
				r.direction = ArabicNumber
				r.appendRun()
			} else if r.status.LastStrong != LeftToRight && from == LeftToRight {
				r.appendRun()
				r.direction = LeftToRight
			}
		} else if r.status.Eor == ArabicNumber ||
			(r.status.Eor == EuropeanNumber && (r.status.LastStrong != LeftToRight || from == RightToLeft)) ||
			(r.status.Eor != EuropeanNumber && r.status.LastStrong == LeftToRight && from == LeftToRight) {
			r.appendRun()
			r.direction = RightToLeft
		}
		r.eor = r.last
	}
	r.appendRun()
	r.emptyRun = true
	r.status.Last = to
	r.status.LastStrong = to
	r.eor = Iterator{}
}
