package store

// Fence records the newest sequence number issued per request key. Completions
// carrying an older number are stale and must not be applied. A Fence value is
// never modified in place; Issue returns a new one.
type Fence map[string]uint64

// Issue returns a fence that knows about seq for key. Sequence numbers only move
// forward, so an out-of-order pending action cannot roll a key back.
func (f Fence) Issue(key string, seq uint64) Fence {
	if f[key] >= seq {
		return f
	}
	out := make(Fence, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[key] = seq
	return out
}

// Current reports whether a completion with seq is the newest for key.
// seq 0 marks an unfenced completion and is always current.
func (f Fence) Current(key string, seq uint64) bool {
	if seq == 0 {
		return true
	}
	return seq >= f[key]
}

// Forget drops key, used when the entity behind it no longer exists.
func (f Fence) Forget(key string) Fence {
	if _, ok := f[key]; !ok {
		return f
	}
	out := make(Fence, len(f))
	for k, v := range f {
		if k != key {
			out[k] = v
		}
	}
	return out
}
