package assets

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

func TestFootstepWAVDecodes(t *testing.T) {
	b := FootstepWAV(SampleRate, 1, rand.New(rand.NewSource(1)))
	if string(b[:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE header: %q", b[:12])
	}

	stream, err := wav.DecodeWithSampleRate(SampleRate, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	frames := int64(SampleRate * 90 / 1000)
	if got := stream.Length(); got != frames*4 {
		t.Fatalf("length = %d bytes, want %d", got, frames*4)
	}
}

func TestFootstepWAVDeterministic(t *testing.T) {
	a := FootstepWAV(SampleRate, 1.1, rand.New(rand.NewSource(7)))
	b := FootstepWAV(SampleRate, 1.1, rand.New(rand.NewSource(7)))
	if !bytes.Equal(a, b) {
		t.Fatalf("same seed produced different audio")
	}
	c := FootstepWAV(SampleRate, 0.9, rand.New(rand.NewSource(7)))
	if bytes.Equal(a, c) {
		t.Fatalf("pitch had no effect")
	}
}

func TestNilFootstepsIsSilent(t *testing.T) {
	var f *Footsteps
	f.PlayFootstep()
	(&Footsteps{}).PlayFootstep()
}
