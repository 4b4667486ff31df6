package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cexll/mcpchat/pkg/agent"
)

type stubRunner struct {
	calls   []string
	answers map[string]string
	err     error
}

func (s *stubRunner) Query(_ context.Context, input string) (*agent.Result, error) {
	s.calls = append(s.calls, input)
	if s.err != nil {
		return nil, s.err
	}
	answer := s.answers[input]
	if answer == "" {
		answer = "answer to " + input
	}
	return &agent.Result{Output: answer}, nil
}

func runDriver(t *testing.T, runner QueryRunner, input string) (out, errOut *bytes.Buffer) {
	t.Helper()
	out = &bytes.Buffer{}
	errOut = &bytes.Buffer{}
	d := NewDriver(runner, WithStreams(strings.NewReader(input), out, errOut))
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("driver run failed: %v", err)
	}
	return out, errOut
}

func TestSentinelTerminatesWithoutGatewayCall(t *testing.T) {
	for _, sentinel := range []string{"quit", "QUIT", "Quit"} {
		t.Run(sentinel, func(t *testing.T) {
			runner := &stubRunner{}
			runDriver(t, runner, sentinel+"\n")
			if len(runner.calls) != 0 {
				t.Fatalf("sentinel %q must not reach the orchestrator, got calls %v", sentinel, runner.calls)
			}
		})
	}
}

func TestAnswersAreRendered(t *testing.T) {
	runner := &stubRunner{answers: map[string]string{"hello": "hi back"}}
	out, _ := runDriver(t, runner, "hello\nquit\n")
	if !strings.Contains(out.String(), "hi back") {
		t.Fatalf("stdout = %q, want the answer rendered", out.String())
	}
	if len(runner.calls) != 1 || runner.calls[0] != "hello" {
		t.Fatalf("runner calls = %v", runner.calls)
	}
}

func TestGatewayErrorIsInlineAndLoopContinues(t *testing.T) {
	runner := &stubRunner{err: errors.New("rate limited")}
	_, errOut := runDriver(t, runner, "first\nsecond\nquit\n")
	if got := strings.Count(errOut.String(), "error: rate limited"); got != 2 {
		t.Fatalf("stderr = %q, want one inline error per failed query", errOut.String())
	}
	if len(runner.calls) != 2 {
		t.Fatalf("a failed query must not stop the session, got calls %v", runner.calls)
	}
}

func TestBlankLinesAreIgnored(t *testing.T) {
	runner := &stubRunner{}
	runDriver(t, runner, "\n   \nquit\n")
	if len(runner.calls) != 0 {
		t.Fatalf("blank lines must not reach the orchestrator, got %v", runner.calls)
	}
}

func TestEOFEndsSession(t *testing.T) {
	runner := &stubRunner{}
	runDriver(t, runner, "hello\n") // no sentinel, reader just ends
	if len(runner.calls) != 1 {
		t.Fatalf("runner calls = %v", runner.calls)
	}
}
