package speech

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"reflect"
	"testing"
	"time"
)

// TestHelperProcess stands in for the speech command. It sleeps for the
// duration given in SPEECH_HELPER_SLEEP.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if d, err := time.ParseDuration(os.Getenv("SPEECH_HELPER_SLEEP")); err == nil {
		time.Sleep(d)
	}
	if os.Getenv("SPEECH_HELPER_FAIL") == "1" {
		os.Exit(3)
	}
	os.Exit(0)
}

type recorded struct {
	name string
	args []string
}

// fakeSpeaker runs the helper process instead of a real engine. sleeps
// maps spoken text to how long the helper takes.
func fakeSpeaker(t *testing.T, sleeps map[string]string, fail bool, calls chan<- recorded) *CommandSpeaker {
	t.Helper()
	failEnv := "SPEECH_HELPER_FAIL=0"
	if fail {
		failEnv = "SPEECH_HELPER_FAIL=1"
	}
	s := &CommandSpeaker{
		engine: &engine{name: "espeak-ng", path: "espeak-ng", args: espeakArgs},
		rate:   DefaultRate,
	}
	s.command = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if calls != nil {
			calls <- recorded{name: name, args: args}
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"SPEECH_HELPER_SLEEP="+sleeps[args[len(args)-1]],
			failEnv,
		)
		return cmd
	}
	return s
}

func TestSpeak_RunsEngine(t *testing.T) {
	calls := make(chan recorded, 1)
	s := fakeSpeaker(t, nil, false, calls)

	if err := s.Speak(context.Background(), " coffee ", English); err != nil {
		t.Fatalf("speak: %v", err)
	}
	got := <-calls
	want := []string{"-v", "en-us", "-s", "157", "coffee"}
	if got.name != "espeak-ng" || !reflect.DeepEqual(got.args, want) {
		t.Errorf("ran %s %v, want espeak-ng %v", got.name, got.args, want)
	}
}

func TestSpeak_CancelsPrevious(t *testing.T) {
	s := fakeSpeaker(t, map[string]string{"コーヒー": "10s"}, false, nil)

	first := make(chan error, 1)
	go func() { first <- s.Speak(context.Background(), "コーヒー", Japanese) }()

	// Wait until the first utterance is registered.
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		started := s.done != nil
		s.mu.Unlock()
		if started || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.Speak(context.Background(), "coffee", English); err != nil {
		t.Fatalf("second speak: %v", err)
	}
	select {
	case err := <-first:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("first utterance ended with %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first utterance was not cancelled")
	}
}

func TestSpeak_Failure(t *testing.T) {
	s := fakeSpeaker(t, nil, true, nil)
	if err := s.Speak(context.Background(), "coffee", English); err == nil {
		t.Fatal("expected error from failing command")
	}
}

func TestSpeak_EmptyTextAndUnavailable(t *testing.T) {
	calls := make(chan recorded, 1)
	s := fakeSpeaker(t, nil, false, calls)
	if err := s.Speak(context.Background(), "   ", English); err != nil {
		t.Fatalf("empty text: %v", err)
	}
	if len(calls) != 0 {
		t.Error("empty text should not run the engine")
	}

	none := &CommandSpeaker{}
	if err := none.Speak(context.Background(), "hi", English); !errors.Is(err, ErrUnavailable) {
		t.Errorf("speak without engine = %v, want ErrUnavailable", err)
	}
	none.Stop()
}

func TestEngineArgs(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string, Lang, float64) []string
		lang Lang
		want []string
	}{
		{"espeak ja", espeakArgs, Japanese, []string{"-v", "ja", "-s", "157", "x"}},
		{"spd en", spdArgs, English, []string{"-w", "-l", "en", "-r", "-10", "x"}},
		{"spd ja", spdArgs, Japanese, []string{"-w", "-l", "ja", "-r", "-10", "x"}},
		{"say en", sayArgs, English, []string{"-v", "Samantha", "-r", "157", "x"}},
		{"say ja", sayArgs, Japanese, []string{"-v", "Kyoko", "-r", "157", "x"}},
		{"plain", plainArgs, Japanese, []string{"x"}},
	}
	for _, tt := range tests {
		if got := tt.fn("x", tt.lang, DefaultRate); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	installed := func(names ...string) func(string) (string, error) {
		return func(n string) (string, error) {
			for _, m := range names {
				if m == n {
					return "/usr/bin/" + n, nil
				}
			}
			return "", exec.ErrNotFound
		}
	}

	if e := detect("", installed("say", "spd-say")); e == nil || e.name != "spd-say" {
		t.Errorf("probe order: got %+v, want spd-say", e)
	}
	if e := detect("", installed()); e != nil {
		t.Errorf("nothing installed: got %+v", e)
	}
	if e := detect("festival-say", installed("festival-say")); e == nil || e.path != "/usr/bin/festival-say" {
		t.Errorf("custom command: got %+v", e)
	}
	if e := detect("missing", installed()); e != nil {
		t.Errorf("missing custom command: got %+v", e)
	}
}
