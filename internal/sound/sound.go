// Package sound plays the game's procedural sound effects.
package sound

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	sampleRate   = 44100
	channelCount = 2
	formatF32LE  = 0 // oto.FormatFloat32LE
)

// Kind identifies a sound effect.
type Kind int

const (
	Point Kind = iota
	GameOver
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "point"
	case GameOver:
		return "game-over"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	ErrNotReady    = errors.New("audio output not ready")
	ErrUnknownKind = errors.New("unknown sound")
)

// Effects plays a sound without waiting for it to finish.
type Effects interface {
	Play(kind Kind) error
}

// Nop is used when there is no audio output.
type Nop struct{}

func (Nop) Play(Kind) error { return nil }

// Player streams pre-rendered effects through oto.
type Player struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume float64
	clips  map[Kind][]byte
	wg     sync.WaitGroup
}

// NewPlayer opens the default audio output and renders every effect.
func NewPlayer(volume float64) (*Player, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channelCount, formatF32LE)
	if err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	return &Player{
		ctx:    ctx,
		ready:  ready,
		volume: clamp(volume, 0, 1),
		clips: map[Kind][]byte{
			Point:    genPoint(),
			GameOver: genGameOver(),
		},
	}, nil
}

// Play starts kind in the background.
func (p *Player) Play(kind Kind) error {
	select {
	case <-p.ready:
	default:
		return ErrNotReady
	}
	clip, ok := p.clips[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		player := p.ctx.NewPlayer(&clipReader{data: clip})
		player.SetVolume(p.volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		_ = player.Close()
	}()
	return nil
}

// Wait blocks until every started effect has finished.
func (p *Player) Wait() {
	p.wg.Wait()
}

type clipReader struct {
	data []byte
	pos  int
}

func (r *clipReader) Read(b []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(b, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
