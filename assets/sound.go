package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const SampleRate = 44100

var (
	contextOnce  sync.Once
	audioContext *audio.Context
)

// Context returns the process audio context, creating it on first use.
func Context() *audio.Context {
	contextOnce.Do(func() {
		if c := audio.CurrentContext(); c != nil {
			audioContext = c
			return
		}
		audioContext = audio.NewContext(SampleRate)
	})
	return audioContext
}

// FootstepWAV synthesizes a short footfall as a 16-bit stereo WAV file.
// pitch scales the thump frequency so variants do not sound identical.
func FootstepWAV(sampleRate int, pitch float64, rng *rand.Rand) []byte {
	const durationMs = 90
	if pitch <= 0 {
		pitch = 1
	}
	frames := sampleRate * durationMs / 1000
	pcm := make([]int16, 0, frames*2)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		thump := math.Sin(2*math.Pi*90*pitch*t) * math.Exp(-t*30)
		scuff := (rng.Float64()*2 - 1) * math.Exp(-t*60) * 0.4
		s := int16(math.Max(-1, math.Min(1, (thump+scuff)*0.5)) * math.MaxInt16)
		pcm = append(pcm, s, s)
	}
	return encodeWAV(sampleRate, pcm)
}

func encodeWAV(sampleRate int, pcm []int16) []byte {
	const (
		channels      = 2
		bitsPerSample = 16
	)
	dataSize := uint32(len(pcm) * 2)
	blockAlign := uint16(channels * bitsPerSample / 8)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate)*uint32(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataSize)
	_ = binary.Write(&buf, binary.LittleEndian, pcm)
	return buf.Bytes()
}

// LoadAudioPlayer decodes WAV bytes into a player on the shared context.
func LoadAudioPlayer(b []byte) (*audio.Player, error) {
	ctx := Context()
	stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	return ctx.NewPlayer(stream)
}

// Footsteps plays synthesized footfalls, rotating through a few variants.
type Footsteps struct {
	Volume  float64
	players []*audio.Player
	next    int
}

func NewFootsteps(variants int, seed int64) (*Footsteps, error) {
	if variants <= 0 {
		variants = 1
	}
	rng := rand.New(rand.NewSource(seed))
	f := &Footsteps{Volume: 0.6}
	for i := 0; i < variants; i++ {
		pitch := 0.85 + 0.3*float64(i)/float64(variants)
		p, err := LoadAudioPlayer(FootstepWAV(SampleRate, pitch, rng))
		if err != nil {
			return nil, err
		}
		f.players = append(f.players, p)
	}
	return f, nil
}

func (f *Footsteps) PlayFootstep() {
	if f == nil || len(f.players) == 0 {
		return
	}
	player := f.players[f.next]
	f.next = (f.next + 1) % len(f.players)
	if player.IsPlaying() {
		return
	}
	player.SetVolume(f.Volume)
	if err := player.Rewind(); err != nil {
		return
	}
	player.Play()
}
