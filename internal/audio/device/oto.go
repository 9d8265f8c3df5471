package device

import (
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/gopxl/beep/v2"
)

const (
	otoChannels      = 2
	bytesPerFrame    = otoChannels * 4
	maxFramesPerRead = 4096
)

// Oto plays through an oto context pulling float32 little-endian frames.
// oto allows a single context per process.
type Oto struct {
	format Format

	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
	state  State
}

// Open implements Device.
func (o *Oto) Open(src beep.Streamer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(o.format.SampleRate),
		ChannelCount: otoChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   o.format.Buffer,
	})
	if err != nil {
		return &AudioUnavailableError{Backend: BackendOto, Err: err}
	}
	<-ready

	o.ctx = ctx
	o.player = ctx.NewPlayer(NewFrameReader(src))
	o.player.Play()
	if err := ctx.Suspend(); err != nil {
		return &AudioUnavailableError{Backend: BackendOto, Err: fmt.Errorf("suspending: %w", err)}
	}
	o.state = StateSuspended
	return nil
}

// Resume implements Device.
func (o *Oto) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx == nil || o.state != StateSuspended {
		return nil
	}
	if err := o.ctx.Resume(); err != nil {
		return fmt.Errorf("resuming oto: %w", err)
	}
	o.state = StateRunning
	return nil
}

// Suspend implements Device.
func (o *Oto) Suspend() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx == nil || o.state != StateRunning {
		return nil
	}
	if err := o.ctx.Suspend(); err != nil {
		return fmt.Errorf("suspending oto: %w", err)
	}
	o.state = StateSuspended
	return nil
}

// State implements Device.
func (o *Oto) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx == nil {
		return StateClosed
	}
	return o.state
}

// Close implements Device. The oto context itself lives until process exit.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	o.ctx = nil
	o.state = StateClosed
	return err
}

// FrameReader adapts a beep.Streamer to an io.Reader producing interleaved
// stereo float32 little-endian frames. Silence is written once the streamer
// is drained so the output never underruns.
type FrameReader struct {
	src beep.Streamer
	buf [][2]float64
}

// NewFrameReader wraps src.
func NewFrameReader(src beep.Streamer) *FrameReader {
	return &FrameReader{src: src, buf: make([][2]float64, maxFramesPerRead)}
}

// Read implements io.Reader. It always fills whole frames.
func (r *FrameReader) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames > len(r.buf) {
		frames = len(r.buf)
	}
	if frames == 0 {
		return 0, nil
	}

	n, _ := r.src.Stream(r.buf[:frames])
	for i := n; i < frames; i++ {
		r.buf[i] = [2]float64{}
	}
	for i := 0; i < frames; i++ {
		putFrame(p, i, r.buf[i][0], r.buf[i][1])
	}
	return frames * bytesPerFrame, nil
}

// putFrame writes left and right as float32 LE at frame i.
func putFrame(p []byte, i int, left, right float64) {
	l := math.Float32bits(float32(left))
	rt := math.Float32bits(float32(right))
	o := i * bytesPerFrame
	p[o], p[o+1], p[o+2], p[o+3] = byte(l), byte(l>>8), byte(l>>16), byte(l>>24)
	p[o+4], p[o+5], p[o+6], p[o+7] = byte(rt), byte(rt>>8), byte(rt>>16), byte(rt>>24)
}
