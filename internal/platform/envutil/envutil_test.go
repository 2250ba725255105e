package envutil

import (
	"reflect"
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("LC_TEST_INT", "nope")
	if got := Int("LC_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("Int: want=7 got=%d", got)
	}
	t.Setenv("LC_TEST_INT", " 12 ")
	if got := Int("LC_TEST_INT", 7, nil); got != 12 {
		t.Fatalf("Int: want=12 got=%d", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"1": true, "on": true, "FALSE": false, "no": false}
	for raw, want := range cases {
		t.Setenv("LC_TEST_BOOL", raw)
		if got := Bool("LC_TEST_BOOL", !want, nil); got != want {
			t.Fatalf("Bool(%q): want=%v got=%v", raw, want, got)
		}
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("LC_TEST_DUR", "90")
	if got := Duration("LC_TEST_DUR", time.Second, nil); got != 90*time.Second {
		t.Fatalf("Duration seconds: got=%s", got)
	}
	t.Setenv("LC_TEST_DUR", "2h")
	if got := Duration("LC_TEST_DUR", time.Second, nil); got != 2*time.Hour {
		t.Fatalf("Duration string: got=%s", got)
	}
}

func TestListAndBlankString(t *testing.T) {
	t.Setenv("LC_TEST_LIST", "a, b,,c ")
	if got := List("LC_TEST_LIST", nil, nil); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("List: got=%v", got)
	}
	t.Setenv("LC_TEST_STR", "   ")
	if got := String("LC_TEST_STR", "def", nil); got != "def" {
		t.Fatalf("String blank: got=%q", got)
	}
}
