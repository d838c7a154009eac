package protocol_test

import (
	"bytes"
	"testing"

	"github.com/momentics/hioload-proxy/api"
	"github.com/momentics/hioload-proxy/core/protocol"
)

type collector struct {
	msgs []api.Buffer
}

func (c *collector) HandleRequest(msg api.Buffer) {
	c.msgs = append(c.msgs, msg)
}

const request = "GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"

func TestHTTPProtocol_SplitInvariance(t *testing.T) {
	stream := []byte(request)
	// every two-way and three-way split of the request yields the same message
	for i := 0; i <= len(stream); i++ {
		for j := i; j <= len(stream); j++ {
			c := &collector{}
			p := protocol.NewHTTPProtocol(c)
			p.ProcessChunk(api.Buffer(stream[:i]))
			p.ProcessChunk(api.Buffer(stream[i:j]))
			p.ProcessChunk(api.Buffer(stream[j:]))
			if len(c.msgs) != 1 {
				t.Fatalf("split %d/%d: %d messages, want 1", i, j, len(c.msgs))
			}
			if !bytes.Equal(c.msgs[0], stream) {
				t.Fatalf("split %d/%d: message %q", i, j, c.msgs[0])
			}
			if p.Buffered() != 0 {
				t.Fatalf("split %d/%d: %d bytes left over", i, j, p.Buffered())
			}
		}
	}
}

func TestHTTPProtocol_ByteAtATime(t *testing.T) {
	c := &collector{}
	p := protocol.NewHTTPProtocol(c)
	for i := 0; i < len(request); i++ {
		p.ProcessChunk(api.Buffer{request[i]})
	}
	if len(c.msgs) != 1 || string(c.msgs[0]) != request {
		t.Fatalf("got %q", c.msgs)
	}
}

func TestHTTPProtocol_PipelinedMessages(t *testing.T) {
	a := "GET /a HTTP/1.1\r\nHost: a\r\n\r\n"
	b := "GET /b HTTP/1.1\r\nHost: b\r\n\r\n"
	d := "GET /c HTTP/1.1\r\nHost: c\r\n\r\n"
	tail := "GET /d HTTP/1.1\r\nHo"

	c := &collector{}
	p := protocol.NewHTTPProtocol(c)
	p.ProcessChunk(api.Buffer(a + b + d + tail))

	want := []string{a, b, d}
	if len(c.msgs) != len(want) {
		t.Fatalf("%d messages, want %d", len(c.msgs), len(want))
	}
	for i := range want {
		if string(c.msgs[i]) != want[i] {
			t.Errorf("message %d = %q, want %q", i, c.msgs[i], want[i])
		}
	}
	if p.Buffered() != len(tail) {
		t.Fatalf("buffered = %d, want %d", p.Buffered(), len(tail))
	}

	p.ProcessChunk(api.Buffer("st: d\r\n\r\n"))
	if len(c.msgs) != 4 || string(c.msgs[3]) != tail+"st: d\r\n\r\n" {
		t.Fatalf("continuation message = %q", c.msgs[len(c.msgs)-1])
	}
}

func TestHTTPProtocol_MessagesDoNotAliasInput(t *testing.T) {
	c := &collector{}
	p := protocol.NewHTTPProtocol(c)
	chunk := api.Buffer(request)
	p.ProcessChunk(chunk)
	chunk[0] = 'X'
	if c.msgs[0][0] != 'G' {
		t.Fatal("delivered message shares memory with the chunk")
	}
}

func TestHTTPProtocol_NoTerminator(t *testing.T) {
	c := &collector{}
	p := protocol.NewHTTPProtocol(c)
	p.ProcessChunk(api.Buffer("GET / HTTP/1.1\r\n"))
	p.ProcessChunk(api.Buffer("\r"))
	if len(c.msgs) != 0 {
		t.Fatalf("premature message %q", c.msgs[0])
	}
	if p.Buffered() != len("GET / HTTP/1.1\r\n\r") {
		t.Fatalf("buffered = %d", p.Buffered())
	}
}

func TestBinaryProtocol_ChunkIsMessage(t *testing.T) {
	c := &collector{}
	p := protocol.NewBinaryProtocol(c)
	p.ProcessChunk(api.Buffer("HTTP/1.1 200 OK\r\n\r\nhi"))
	p.ProcessChunk(api.Buffer("more"))
	if len(c.msgs) != 2 || string(c.msgs[0]) != "HTTP/1.1 200 OK\r\n\r\nhi" || string(c.msgs[1]) != "more" {
		t.Fatalf("got %q", c.msgs)
	}
}

func TestPassthroughOutput(t *testing.T) {
	in := api.Buffer("abc")
	out := protocol.PassthroughOutput{}.Transform(in)
	if &out[0] != &in[0] {
		t.Fatal("passthrough copied the buffer")
	}
}

func TestHTTPProtocol_DropsNULAfterTerminator(t *testing.T) {
	cases := []struct {
		name   string
		chunks []string
	}{
		{"same chunk", []string{request + "\x00" + request}},
		{"next chunk", []string{request, "\x00" + request}},
		{"after empty chunk", []string{request, "", "\x00" + request}},
		{"only one NUL", []string{request + "\x00\x00" + request}},
	}
	for _, tc := range cases {
		c := &collector{}
		p := protocol.NewHTTPProtocol(c)
		for _, chunk := range tc.chunks {
			p.ProcessChunk(api.Buffer(chunk))
		}
		if len(c.msgs) != 2 {
			t.Fatalf("%s: %d messages, want 2", tc.name, len(c.msgs))
		}
		if tc.name == "only one NUL" {
			if string(c.msgs[1]) != "\x00"+request {
				t.Fatalf("%s: second message %q", tc.name, c.msgs[1])
			}
			continue
		}
		if string(c.msgs[1]) != request {
			t.Fatalf("%s: second message %q", tc.name, c.msgs[1])
		}
	}
}

func TestHTTPProtocol_NULElsewhereIsKept(t *testing.T) {
	c := &collector{}
	p := protocol.NewHTTPProtocol(c)
	p.ProcessChunk(api.Buffer(request + "G"))
	p.ProcessChunk(api.Buffer("\x00ET / HTTP/1.1\r\n\r\n"))
	if len(c.msgs) != 2 || string(c.msgs[1]) != "G\x00ET / HTTP/1.1\r\n\r\n" {
		t.Fatalf("messages %q", c.msgs)
	}
}
