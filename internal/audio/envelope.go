package audio

// envPoint is a breakpoint: value at t seconds after voice start.
type envPoint struct {
	t, v float64
}

// envelope is a piecewise linear gain curve. Before the first point the
// first value applies; after the last point the last value is held.
type envelope []envPoint

func (e envelope) at(t float64) float64 {
	if len(e) == 0 {
		return 0
	}
	if t <= e[0].t {
		return e[0].v
	}
	for i := 1; i < len(e); i++ {
		a, b := e[i-1], e[i]
		if t <= b.t {
			if b.t == a.t {
				return b.v
			}
			return a.v + (b.v-a.v)*(t-a.t)/(b.t-a.t)
		}
	}
	return e[len(e)-1].v
}

// Envelope shape constants, in seconds.
const (
	toneAttack     = 0.010
	toneDecayEnd   = 0.110
	tonePeak       = 0.8
	toneSustain    = 0.6
	envFloor       = 0.001
	drumAttack     = 0.005
	drumReleaseEnd = 0.8 // fraction of the voice duration
)

// toneEnvelope rises to 0.8 in 10ms, falls to 0.6 by 110ms, then fades to
// near silence at dur. Breakpoints past dur are dropped so the curve stays
// monotonic in time for very short notes.
func toneEnvelope(dur float64) envelope {
	e := envelope{{0, 0}}
	if toneAttack < dur {
		e = append(e, envPoint{toneAttack, tonePeak})
	}
	if toneDecayEnd < dur {
		e = append(e, envPoint{toneDecayEnd, toneSustain})
	}
	return append(e, envPoint{dur, envFloor})
}

// drumEnvelope hits full level in 5ms and fades to near silence at 80% of
// dur, holding there until the voice stops.
func drumEnvelope(dur float64) envelope {
	end := drumReleaseEnd * dur
	e := envelope{{0, 0}}
	if drumAttack < end {
		e = append(e, envPoint{drumAttack, 1})
	}
	return append(e, envPoint{end, envFloor})
}
