package media

import "testing"

func TestConcatListEntry(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/tmp/ws/frame-0.jpg", "file '/tmp/ws/frame-0.jpg'"},
		{"/tmp/it's here.mp3", `file '/tmp/it'\''s here.mp3'`},
	}
	for _, tc := range cases {
		if got := ConcatListEntry(tc.in); got != tc.want {
			t.Errorf("ConcatListEntry(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTail(t *testing.T) {
	if got := tail("  short  ", 10); got != "short" {
		t.Fatalf("tail = %q", got)
	}
	if got := tail("abcdefghij", 4); got != "ghij" {
		t.Fatalf("tail = %q", got)
	}
}
