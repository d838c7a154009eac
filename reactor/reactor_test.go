package reactor

import "testing"

func TestReadiness_Precedence(t *testing.T) {
	k := Readable | Writable | Hangup
	if !k.Failed() {
		t.Fatal("hangup must mark the event failed")
	}
	if !(Error).Failed() {
		t.Fatal("error must mark the event failed")
	}
	if (Readable | Writable | PeerClosed).Failed() {
		t.Fatal("rdhup alone is not a failure")
	}
}

func TestReadiness_String(t *testing.T) {
	cases := map[Readiness]string{
		0:                     "none",
		Readable:              "readable",
		Readable | Writable:   "readable|writable",
		Error | Hangup:        "error|hangup",
		PeerClosed | Readable: "rdhup|readable",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%08b: got %q, want %q", uint8(k), got, want)
		}
	}
}
