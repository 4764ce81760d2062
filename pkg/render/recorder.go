// pkg/render/recorder.go
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/opd-ai/go-arena/pkg/engine"
)

// Frame is the recorded form of one snapshot.
type Frame struct {
	Tick       uint64        `msgpack:"tick"`
	HalfExtent float64       `msgpack:"half_extent"`
	Entities   []FrameEntity `msgpack:"entities"`
}

// FrameEntity is one entity in a Frame. Ids are stored as strings so
// recordings stay readable by tools that know nothing about this package.
type FrameEntity struct {
	ID      string  `msgpack:"id"`
	Kind    string  `msgpack:"kind"`
	Tag     string  `msgpack:"tag"`
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	Rot     float64 `msgpack:"rot"`
	Radius  float64 `msgpack:"r"`
	HP      float64 `msgpack:"hp"`
	Growing bool    `msgpack:"growing,omitempty"`
	Owner   string  `msgpack:"owner,omitempty"`
	XP      float64 `msgpack:"xp,omitempty"`
}

// NewFrame converts a snapshot for recording.
func NewFrame(snap *engine.Snapshot) Frame {
	f := Frame{
		Tick:       snap.Tick,
		HalfExtent: snap.HalfExtent,
		Entities:   make([]FrameEntity, len(snap.Entities)),
	}
	for i, st := range snap.Entities {
		fe := FrameEntity{
			ID:      st.ID.String(),
			Kind:    st.Kind.String(),
			Tag:     st.Tag,
			X:       st.Position.X,
			Y:       st.Position.Y,
			Rot:     st.Rotation,
			Radius:  st.Radius,
			HP:      st.HPRatio,
			Growing: st.Growing,
			XP:      st.XP,
		}
		if owner, ok := st.Owner.Get(); ok {
			fe.Owner = owner.String()
		}
		f.Entities[i] = fe
	}
	return f
}

// Recorder writes every Nth snapshot to a stream of msgpack frames.
type Recorder struct {
	w      io.Writer
	enc    *msgpack.Encoder
	every  uint64
	frames int
}

// NewRecorder records to w, keeping one frame in every (at least 1).
// Close closes w when it is an io.Closer.
func NewRecorder(w io.Writer, every int) *Recorder {
	return &Recorder{
		w:     w,
		enc:   msgpack.NewEncoder(w),
		every: uint64(max(every, 1)),
	}
}

// Render implements Renderer.
func (r *Recorder) Render(snap *engine.Snapshot) error {
	if snap == nil || snap.Tick%r.every != 0 {
		return nil
	}
	if err := r.enc.Encode(NewFrame(snap)); err != nil {
		return fmt.Errorf("recording tick %d: %w", snap.Tick, err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int {
	return r.frames
}

// Close implements Renderer.
func (r *Recorder) Close() error {
	if c, ok := r.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ReadFrames decodes a whole recording.
func ReadFrames(rd io.Reader) ([]Frame, error) {
	dec := msgpack.NewDecoder(rd)
	var frames []Frame
	for {
		var f Frame
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, fmt.Errorf("reading frame %d: %w", len(frames), err)
		}
		frames = append(frames, f)
	}
}
