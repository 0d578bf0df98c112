package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// Capturer delivers mono float32 frames from an input device.
type Capturer interface {
	// Start begins capture. onFrames is called from the capture thread.
	Start(onFrames func([]float32)) error
	// Stop ends capture and frees the device. Calling it again is a no-op.
	Stop() error
}

// MalgoCapturer records from the default input device through miniaudio.
type MalgoCapturer struct {
	sampleRate uint32
	log        *slog.Logger

	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	frames []float32
}

// NewMalgoCapturer returns a capturer for the default microphone.
func NewMalgoCapturer(sampleRate uint32, log *slog.Logger) *MalgoCapturer {
	if sampleRate == 0 {
		sampleRate = 44100
	}
	if log == nil {
		log = slog.Default()
	}
	return &MalgoCapturer{sampleRate: sampleRate, log: log}
}

func (m *MalgoCapturer) Start(onFrames func([]float32)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device != nil {
		return errors.New("capture already started")
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		m.log.Debug("miniaudio", "message", msg)
	})
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = 1
	cfg.SampleRate = m.sampleRate
	cfg.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			onFrames(m.decode(input, frameCount))
		},
	})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("init capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("start capture device: %w", err)
	}

	m.ctx = ctx
	m.device = device
	m.log.Info("Microphone capture started", "sampleRate", m.sampleRate)
	return nil
}

// decode converts little-endian float32 bytes. Only called from the capture
// thread, so the scratch slice is not shared.
func (m *MalgoCapturer) decode(input []byte, frameCount uint32) []float32 {
	n := int(frameCount)
	if n*4 > len(input) {
		n = len(input) / 4
	}
	if cap(m.frames) < n {
		m.frames = make([]float32, n)
	}
	out := m.frames[:n]
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(input[i*4:]))
	}
	return out
}

func (m *MalgoCapturer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device == nil {
		return nil
	}
	var errs []error
	if err := m.device.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop capture device: %w", err))
	}
	m.device.Uninit()
	if err := m.ctx.Uninit(); err != nil {
		errs = append(errs, fmt.Errorf("uninit audio context: %w", err))
	}
	m.ctx.Free()
	m.device = nil
	m.ctx = nil
	m.log.Info("Microphone capture stopped")
	return errors.Join(errs...)
}
