package config

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if d.Duration() != 90*time.Second {
		t.Errorf("Duration() = %v, want 1m30s", d.Duration())
	}

	if err := d.UnmarshalText([]byte("-5s")); err == nil {
		t.Error("UnmarshalText(-5s) error = nil, want negative rejection")
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText(soon) error = nil, want parse error")
	}
}

func TestSecret_Redaction(t *testing.T) {
	s := Secret("hunter2")

	if s.String() != "[REDACTED]" {
		t.Errorf("String() = %q, want [REDACTED]", s.String())
	}
	if got := fmt.Sprintf("%v", s); got != "[REDACTED]" {
		t.Errorf("%%v = %q, want [REDACTED]", got)
	}
	if got := fmt.Sprintf("%#v", s); got != "Secret([REDACTED])" {
		t.Errorf("%%#v = %q, want Secret([REDACTED])", got)
	}
	if s.Value() != "hunter2" {
		t.Errorf("Value() = %q, want hunter2", s.Value())
	}
	if !s.IsSet() {
		t.Error("IsSet() = false, want true")
	}

	data, err := json.Marshal(struct{ Token Secret }{Token: s})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if want := `{"Token":"[REDACTED]"}`; string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}

	var empty Secret
	if empty.String() != "" || empty.IsSet() {
		t.Error("empty secret should render empty and report unset")
	}
}
