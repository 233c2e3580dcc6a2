package logging

import "testing"

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if _, err := Setup("verbose", "", true); err == nil {
		t.Errorf("expected a ConfigError for an unrecognized log level")
	}
}

func TestSetupAcceptsEmptyLevelAsInfo(t *testing.T) {
	logger, err := Setup("", "", true)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected a non-nil logger")
	}
}

func TestSetupWritesToFile(t *testing.T) {
	path := t.TempDir() + "/out.log"
	logger, err := Setup("debug", path, false)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Info("hello")
}
