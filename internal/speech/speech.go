// Package speech reads words aloud through a text-to-speech command found
// on the host (espeak-ng, spd-say or macOS say).
package speech

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Lang is a BCP 47 language tag understood by the speaker.
type Lang string

const (
	English  Lang = "en-US"
	Japanese Lang = "ja-JP"
)

// DefaultRate slows speech slightly for learners.
const DefaultRate = 0.9

// baseWPM is the normal speaking speed for engines that take words per minute.
const baseWPM = 175

// ErrUnavailable is returned when no speech command is installed.
var ErrUnavailable = errors.New("speech: no text-to-speech command available")

// Speaker speaks text. Speak cancels any utterance still playing.
type Speaker interface {
	Speak(ctx context.Context, text string, lang Lang) error
	Stop()
}

// Nop is a Speaker that stays silent.
type Nop struct{}

func (Nop) Speak(context.Context, string, Lang) error { return nil }
func (Nop) Stop()                                     {}

type commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// CommandSpeaker runs one external process per utterance.
type CommandSpeaker struct {
	engine  *engine
	rate    float64
	command commandFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New picks command when set, otherwise the first installed engine. The
// result is usable even when nothing is installed; Speak then returns
// ErrUnavailable.
func New(command string, rate float64) *CommandSpeaker {
	if rate <= 0 {
		rate = DefaultRate
	}
	return &CommandSpeaker{
		engine:  detect(command, exec.LookPath),
		rate:    rate,
		command: exec.CommandContext,
	}
}

// Available reports whether a speech command was found.
func (s *CommandSpeaker) Available() bool {
	return s.engine != nil
}

// Engine names the command in use, or "" when none was found.
func (s *CommandSpeaker) Engine() string {
	if s.engine == nil {
		return ""
	}
	return s.engine.path
}

// Speak blocks until the utterance finishes, is replaced by a newer one,
// or ctx ends.
func (s *CommandSpeaker) Speak(ctx context.Context, text string, lang Lang) error {
	if s.engine == nil {
		return ErrUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	prev := s.done
	s.cancel, s.done = cancel, done
	s.mu.Unlock()

	defer func() {
		cancel()
		close(done)
		s.mu.Lock()
		if s.done == done {
			s.cancel, s.done = nil, nil
		}
		s.mu.Unlock()
	}()

	// Let the previous process exit so two voices never overlap.
	if prev != nil {
		<-prev
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	args := s.engine.args(text, lang, s.rate)
	cmd := s.command(ctx, s.engine.path, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logrus.WithError(err).WithField("engine", s.engine.name).Warn("speech command failed")
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}

// Stop cancels the current utterance, if any.
func (s *CommandSpeaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

type engine struct {
	name string
	path string
	args func(text string, lang Lang, rate float64) []string
}

var engines = map[string]func(text string, lang Lang, rate float64) []string{
	"espeak-ng": espeakArgs,
	"espeak":    espeakArgs,
	"spd-say":   spdArgs,
	"say":       sayArgs,
}

var probeOrder = []string{"espeak-ng", "espeak", "spd-say", "say"}

func detect(command string, lookPath func(string) (string, error)) *engine {
	if command != "" {
		path, err := lookPath(command)
		if err != nil {
			logrus.WithError(err).WithField("command", command).Warn("speech command not found")
			return nil
		}
		name := filepath.Base(command)
		args, ok := engines[name]
		if !ok {
			args = plainArgs
		}
		return &engine{name: name, path: path, args: args}
	}
	for _, name := range probeOrder {
		if path, err := lookPath(name); err == nil {
			return &engine{name: name, path: path, args: engines[name]}
		}
	}
	return nil
}

func wpm(rate float64) string {
	return strconv.Itoa(int(baseWPM * rate))
}

func espeakArgs(text string, lang Lang, rate float64) []string {
	voice := "en-us"
	if lang == Japanese {
		voice = "ja"
	}
	return []string{"-v", voice, "-s", wpm(rate), text}
}

// spd-say takes a rate in [-100, 100] around the default.
func spdArgs(text string, lang Lang, rate float64) []string {
	l := "en"
	if lang == Japanese {
		l = "ja"
	}
	r := int(math.Round((rate - 1) * 100))
	r = max(-100, min(100, r))
	return []string{"-w", "-l", l, "-r", strconv.Itoa(r), text}
}

func sayArgs(text string, lang Lang, rate float64) []string {
	voice := "Samantha"
	if lang == Japanese {
		voice = "Kyoko"
	}
	return []string{"-v", voice, "-r", wpm(rate), text}
}

func plainArgs(text string, _ Lang, _ float64) []string {
	return []string{text}
}
