package conduitx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewID_URLSafe(t *testing.T) {
	for i := 0; i < 200; i++ {
		id := NewID()
		if id == FallbackID {
			t.Fatalf("unexpected fallback id on attempt %d", i)
		}
		if strings.ContainsAny(id, "+/=") {
			t.Fatalf("id %q contains unsafe characters", id)
		}
		if len(id) != 22 {
			t.Fatalf("id %q has length %d, want 22", id, len(id))
		}
	}
}

func TestNewID_FallbackAfterExhaustion(t *testing.T) {
	orig := newUUID
	defer func() { newUUID = orig }()

	// All-0xFF bytes encode to base64 built from '/' characters, so every
	// attempt is rejected.
	var dirty uuid.UUID
	for i := range dirty {
		dirty[i] = 0xff
	}
	calls := 0
	newUUID = func() (uuid.UUID, error) {
		calls++
		return dirty, nil
	}

	if got := NewID(); got != FallbackID {
		t.Fatalf("NewID() = %q, want fallback %q", got, FallbackID)
	}
	if calls != idMaxAttempts {
		t.Fatalf("attempts = %d, want %d", calls, idMaxAttempts)
	}
}

func TestNewID_AcceptsFirstCleanEncoding(t *testing.T) {
	orig := newUUID
	defer func() { newUUID = orig }()

	var dirty, clean uuid.UUID
	for i := range dirty {
		dirty[i] = 0xff
	}
	calls := 0
	newUUID = func() (uuid.UUID, error) {
		calls++
		if calls <= idWarnAfter {
			return dirty, nil
		}
		return clean, nil
	}

	got := NewID()
	if strings.ContainsAny(got, "+/") {
		t.Fatalf("id %q not clean", got)
	}
	if calls != idWarnAfter+1 {
		t.Fatalf("attempts = %d, want %d", calls, idWarnAfter+1)
	}
}

func TestIDConstants(t *testing.T) {
	if idMaxAttempts != 100 {
		t.Fatalf("idMaxAttempts = %d, want 100", idMaxAttempts)
	}
	if idWarnAfter != 10 {
		t.Fatalf("idWarnAfter = %d, want 10", idWarnAfter)
	}
}
