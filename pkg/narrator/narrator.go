package narrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/speech"
	"github.com/elimu-ai/elimu/pkg/text"
)

const (
	WordsPerMinute = 150

	DefaultLanguage = "en-US"

	subscriberBuffer = 16
)

type Callbacks struct {
	OnStart   func()
	OnDone    func()
	OnStopped func()
	OnError   func(error)
}

type SpeakOptions struct {
	Voice    string
	Language string

	Rate  float64
	Pitch float64

	Callbacks
}

type utterance struct {
	id uint64

	cancel context.CancelFunc
	done   chan struct{}

	stopped bool

	callbacks Callbacks
}

// Narrator plays one utterance at a time on a speech engine and publishes
// its lifecycle to subscribers.
type Narrator struct {
	engine speech.Engine
	logger *slog.Logger

	mu sync.Mutex

	state  State
	active *utterance
	seq    uint64

	subscribers map[int]chan Event
	nextSub     int
}

type Option func(*Narrator)

func WithLogger(logger *slog.Logger) Option {
	return func(n *Narrator) {
		n.logger = logger
	}
}

func New(engine speech.Engine, options ...Option) (*Narrator, error) {
	if engine == nil {
		return nil, errors.New("speech engine is required")
	}

	n := &Narrator{
		engine: engine,
		logger: slog.Default(),

		state: StateIdle,

		subscribers: make(map[int]chan Event),
	}

	for _, option := range options {
		option(n)
	}

	return n, nil
}

func (n *Narrator) Capabilities() speech.Capabilities {
	return n.engine.Capabilities()
}

func (n *Narrator) Voices(ctx context.Context) ([]processing.Voice, error) {
	voices, err := n.engine.Voices(ctx)

	if err != nil {
		return nil, processing.NewError(processing.KindAudioGenerationFailed, "voices", "failed to fetch available voices", err)
	}

	return voices, nil
}

func (n *Narrator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.state
}

func (n *Narrator) IsSpeaking() bool {
	return n.State().Active()
}

// Speak starts playback of text and returns once the utterance began.
// An utterance that is already playing is stopped first.
func (n *Narrator) Speak(ctx context.Context, input string, options *SpeakOptions) (*processing.AudioResult, error) {
	if options == nil {
		options = new(SpeakOptions)
	}

	input = text.PlainText(input)

	if strings.TrimSpace(input) == "" {
		return nil, processing.Errorf(processing.KindInvalidInput, "speak", "cannot speak empty text")
	}

	length := utf8.RuneCountInString(input)

	if limit := n.engine.Capabilities().MaxInputLength; limit > 0 && length > limit {
		return nil, processing.Errorf(processing.KindInvalidInput, "speak", "text too long: %d characters exceeds maximum of %d", length, limit)
	}

	rate := options.Rate

	if rate <= 0 {
		rate = 1.0
	}

	pitch := options.Pitch

	if pitch <= 0 {
		pitch = 1.0
	}

	language := options.Language

	if language == "" {
		language = DefaultLanguage
	}

	words := len(strings.Fields(input))

	u, uctx, err := n.start(ctx, options.Callbacks)

	if err != nil {
		return nil, err
	}

	speakOptions := &speech.SpeakOptions{
		Voice:    options.Voice,
		Language: language,

		Rate:  rate,
		Pitch: pitch,
	}

	go n.run(uctx, u, input, speakOptions)

	return &processing.AudioResult{
		Duration:          EstimateDuration(words, rate),
		DurationEstimated: true,

		Format: processing.AudioFormatTTS,
		Status: processing.StatusReady,

		Metadata: map[string]any{
			"utterance": u.id,

			"voiceId":  options.Voice,
			"language": language,

			"speed": rate,
			"pitch": pitch,

			"wordCount": words,
			"charCount": length,
		},
	}, nil
}

// EstimateDuration returns the expected playback time in seconds.
func EstimateDuration(words int, rate float64) float64 {
	if rate <= 0 {
		rate = 1.0
	}

	return float64(words) / (WordsPerMinute * rate) * 60
}

// start claims the device for a new utterance, stopping and waiting for
// any active one.
func (n *Narrator) start(ctx context.Context, callbacks Callbacks) (*utterance, context.Context, error) {
	for {
		n.mu.Lock()

		active := n.active

		if active == nil {
			n.seq++

			// playback outlives the request that started it
			uctx, cancel := context.WithCancel(context.WithoutCancel(ctx))

			u := &utterance{
				id: n.seq,

				cancel: cancel,
				done:   make(chan struct{}),

				callbacks: callbacks,
			}

			n.active = u
			n.transition(u.id, StateSpeaking, nil, false)

			n.mu.Unlock()

			return u, uctx, nil
		}

		active.stopped = true
		active.cancel()

		n.mu.Unlock()

		select {
		case <-active.done:
		case <-ctx.Done():
			return nil, nil, processing.NewError(processing.KindAudioGenerationFailed, "speak", "canceled while stopping previous utterance", ctx.Err())
		}
	}
}

func (n *Narrator) run(ctx context.Context, u *utterance, input string, options *speech.SpeakOptions) {
	defer u.cancel()

	if u.callbacks.OnStart != nil {
		u.callbacks.OnStart()
	}

	n.logger.Debug("narration started", "utterance", u.id, "chars", utf8.RuneCountInString(input))

	err := n.engine.Speak(ctx, input, options)

	n.mu.Lock()

	var state State
	var muted bool

	switch {
	case u.stopped:
		state = StateStopped
		err = nil

	case err == nil:
		state = StateCompleted

	case errors.Is(err, speech.ErrMuted):
		state = StateErrored
		muted = true
		err = processing.NewError(processing.KindAudioGenerationFailed, "speak", "audio output is muted", err)

	default:
		state = StateErrored
		err = processing.NewError(processing.KindAudioGenerationFailed, "speak", "failed to speak text", err)
	}

	n.transition(u.id, state, err, muted)

	if n.active == u {
		n.active = nil
	}

	close(u.done)

	n.mu.Unlock()

	switch state {
	case StateCompleted:
		n.logger.Debug("narration completed", "utterance", u.id)

		if u.callbacks.OnDone != nil {
			u.callbacks.OnDone()
		}

	case StateStopped:
		n.logger.Debug("narration stopped", "utterance", u.id)

		if u.callbacks.OnStopped != nil {
			u.callbacks.OnStopped()
		}

	case StateErrored:
		n.logger.Warn("narration failed", "utterance", u.id, "muted", muted, "error", err)

		if u.callbacks.OnError != nil {
			u.callbacks.OnError(err)
		}
	}
}

// Stop ends the active utterance and waits until the engine released the device.
func (n *Narrator) Stop() error {
	n.mu.Lock()

	active := n.active

	if active == nil {
		n.mu.Unlock()
		return nil
	}

	active.stopped = true
	active.cancel()

	n.mu.Unlock()

	<-active.done

	return nil
}

func (n *Narrator) Pause() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.engine.Capabilities().Pause {
		return fmt.Errorf("pause: %w", speech.ErrUnsupported)
	}

	if n.active == nil || n.state != StateSpeaking {
		return fmt.Errorf("pause: %w", speech.ErrNotSpeaking)
	}

	if err := n.engine.Pause(); err != nil {
		return fmt.Errorf("pause: %w", err)
	}

	n.transition(n.active.id, StatePaused, nil, false)

	return nil
}

func (n *Narrator) Resume() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.engine.Capabilities().Pause {
		return fmt.Errorf("resume: %w", speech.ErrUnsupported)
	}

	if n.active == nil || n.state != StatePaused {
		return fmt.Errorf("resume: %w", speech.ErrNotSpeaking)
	}

	if err := n.engine.Resume(); err != nil {
		return fmt.Errorf("resume: %w", err)
	}

	n.transition(n.active.id, StateSpeaking, nil, false)

	return nil
}

// Wait blocks until the active utterance, if any, has finished.
func (n *Narrator) Wait(ctx context.Context) error {
	n.mu.Lock()
	active := n.active
	n.mu.Unlock()

	if active == nil {
		return nil
	}

	select {
	case <-active.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns a channel receiving state transitions. Events are
// dropped for subscribers that do not keep up.
func (n *Narrator) Subscribe() (<-chan Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextSub
	n.nextSub++

	ch := make(chan Event, subscriberBuffer)
	n.subscribers[id] = ch

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()

			delete(n.subscribers, id)
			close(ch)
		})
	}
}

// transition must be called with mu held.
func (n *Narrator) transition(id uint64, to State, err error, muted bool) {
	from := n.state

	if !canTransition(from, to) {
		n.logger.Warn("invalid narration transition", "from", from, "to", to, "utterance", id)
		return
	}

	n.state = to

	event := Event{
		Utterance: id,

		State:    to,
		Previous: from,

		Muted: muted,
		Err:   err,

		Time: time.Now(),
	}

	for _, ch := range n.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
