package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bft-labs/mediaship/pkg/mediaship"
)

func TestProgressReporterSteps(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressReporter(zerolog.New(&buf), 25)

	total := int64(10000)
	for sent := int64(1024); ; sent += 1024 {
		if sent > total {
			sent = total
		}
		p.report(mediaship.Progress{Sent: sent, Total: total, Offset: sent})
		if sent == total {
			break
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d progress lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[3], `"percent":100`) {
		t.Errorf("last line = %s, want percent 100", lines[3])
	}
}

func TestProgressReporterReset(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressReporter(zerolog.New(&buf), 50)

	p.report(mediaship.Progress{Sent: 60, Total: 100})
	p.report(mediaship.Progress{Sent: 70, Total: 100})
	p.reset()
	p.report(mediaship.Progress{Sent: 55, Total: 100})

	if n := strings.Count(buf.String(), "upload progress"); n != 2 {
		t.Errorf("got %d progress lines, want 2", n)
	}
}

func TestProgressReporterIgnoresEmptyTotals(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressReporter(zerolog.New(&buf), 10)
	p.report(mediaship.Progress{})
	if buf.Len() != 0 {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
