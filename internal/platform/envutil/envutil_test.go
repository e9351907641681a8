package envutil

import (
	"testing"
	"time"
)

func TestReaders(t *testing.T) {
	t.Setenv("ENVUTIL_INT", " 7 ")
	t.Setenv("ENVUTIL_BAD_INT", "seven")
	t.Setenv("ENVUTIL_FLOAT", "0.25")
	t.Setenv("ENVUTIL_BOOL", "off")
	t.Setenv("ENVUTIL_SECS", "3")
	t.Setenv("ENVUTIL_STR", "  neo4j://x  ")

	if got := Int("ENVUTIL_INT", 1); got != 7 {
		t.Fatalf("Int: want=7 got=%d", got)
	}
	if got := Int("ENVUTIL_BAD_INT", 1); got != 1 {
		t.Fatalf("Int fallback: want=1 got=%d", got)
	}
	if got := Float("ENVUTIL_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: want=0.25 got=%v", got)
	}
	if got := Bool("ENVUTIL_BOOL", true); got {
		t.Fatalf("Bool: want=false got=%v", got)
	}
	if got := Bool("ENVUTIL_MISSING", true); !got {
		t.Fatalf("Bool default: want=true got=%v", got)
	}
	if got := Seconds("ENVUTIL_SECS", time.Second); got != 3*time.Second {
		t.Fatalf("Seconds: want=3s got=%v", got)
	}
	if got := String("ENVUTIL_STR", "d"); got != "neo4j://x" {
		t.Fatalf("String: want=%q got=%q", "neo4j://x", got)
	}
}
