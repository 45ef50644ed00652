package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestNewDefaultsTimeout(t *testing.T) {
	if got := New(0).Timeout; got != DefaultTimeout {
		t.Errorf("New(0).Timeout = %v, want %v", got, DefaultTimeout)
	}
	if got := New(-time.Second).Timeout; got != DefaultTimeout {
		t.Errorf("New(-1s).Timeout = %v, want %v", got, DefaultTimeout)
	}
	if got := New(3 * time.Second).Timeout; got != 3*time.Second {
		t.Errorf("New(3s).Timeout = %v", got)
	}
}

func TestNewLongPollAddsHeadroom(t *testing.T) {
	// el client tiene que sobrevivir al long-poll entero
	if got := NewLongPoll(60 * time.Second).Timeout; got != 60*time.Second+DefaultTimeout {
		t.Errorf("NewLongPoll(60s).Timeout = %v", got)
	}
	if got := NewLongPoll(-time.Second).Timeout; got != DefaultTimeout {
		t.Errorf("NewLongPoll(-1s).Timeout = %v", got)
	}
}

func TestNewWithTransportInjectsRoundTripper(t *testing.T) {
	var seen string
	c := NewWithTransport(time.Second, RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		seen = req.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("stubbed")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}))

	resp, err := c.Get("https://api.example.test/botTOKEN/getMe")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	if seen != "https://api.example.test/botTOKEN/getMe" {
		t.Errorf("transport saw %q", seen)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "stubbed" {
		t.Errorf("body = %q", body)
	}
}

func TestNewWithTransportNilKeepsDefault(t *testing.T) {
	c := NewWithTransport(time.Second, nil)
	if c.Transport != nil {
		t.Errorf("nil transport should leave http.DefaultTransport in play, got %T", c.Transport)
	}
}
