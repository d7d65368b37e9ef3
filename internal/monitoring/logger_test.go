package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("hello %d", 7)
	if got != "hello 7" {
		t.Fatalf("Logf did not reach replacement logger, got %q", got)
	}

	SetLogger(nil)
	got = ""
	Logf("muted")
	if got != "" {
		t.Fatalf("nil logger should mute output, got %q", got)
	}
}

func TestDebugfGatedByVerbose(t *testing.T) {
	defer SetLogger(nil)
	defer SetVerbose(false)

	var calls int
	SetLogger(func(format string, v ...interface{}) { calls++ })

	SetVerbose(false)
	Debugf("dropped")
	if calls != 0 {
		t.Fatalf("Debugf logged while verbose off: %d calls", calls)
	}

	SetVerbose(true)
	Debugf("kept")
	if calls != 1 {
		t.Fatalf("Debugf should log while verbose on, got %d calls", calls)
	}
}
