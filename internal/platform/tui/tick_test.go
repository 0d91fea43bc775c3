package tui

import (
	"testing"
)

func TestTickCmdClampsNonPositiveRate(t *testing.T) {
	for _, rate := range []int{0, -5} {
		cmd := tickCmd(rate)
		if cmd == nil {
			t.Fatalf("tickCmd(%d) returned no command", rate)
		}
		if _, ok := cmd().(TickMsg); !ok {
			t.Errorf("tickCmd(%d) did not produce a tick message", rate)
		}
	}
}
