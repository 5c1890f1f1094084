package rand

import (
	"strings"
	"testing"
)

func TestScratchName(t *testing.T) {
	a := ScratchName("movie.flv")
	b := ScratchName("movie.flv")
	if a == b {
		t.Errorf("expected unique names, got %q twice", a)
	}
	if !strings.HasPrefix(a, ".tmp-movie.flv-") {
		t.Errorf("unexpected name %q", a)
	}
	if got := len(a) - len(".tmp-movie.flv-"); got != 36 {
		t.Errorf("expected a 36 character uuid suffix, got %d characters", got)
	}
}
