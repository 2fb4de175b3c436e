package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	v, c, d := Info()
	switch {
	case v == "":
		t.Error("version should not be empty")
	case c == "":
		t.Error("commit should not be empty")
	case d == "":
		t.Error("date should not be empty")
	default:
		t.Log("version: ", v)
		t.Log("commit: ", c)
		t.Log("date: ", d)
	}
}

func TestString(t *testing.T) {
	s := String()
	switch {
	case s == "":
		t.Error("String should not return empty string")
	case !strings.Contains(s, "version="):
		t.Error("String should contain 'version='")
	case !strings.Contains(s, "commit="):
		t.Error("String should contain 'commit='")
	case !strings.Contains(s, "date="):
		t.Error("String should contain 'date='")
	default:
		t.Log("string: ", s)
	}
}

func TestStringMatchesInfo(t *testing.T) {
	v, c, d := Info()
	s := String()

	for _, part := range []string{"version=" + v, "commit=" + c, "date=" + d} {
		if !strings.Contains(s, part) {
			t.Errorf("String should contain %q, got %q", part, s)
		}
	}
}
