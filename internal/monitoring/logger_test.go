package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("extracted %d rows", 10)
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op logger, not a nil function.
	called = false
	SetLogger(nil)
	Logf("muted")
	if called {
		t.Error("no-op logger should not reach the previous callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
	Logf("default logger: %s", "ok")
}
