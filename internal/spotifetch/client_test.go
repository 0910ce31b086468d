package spotifetch

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/zmb3/spotify/v2"
)

func TestAuthorizeReportsCallbackPortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving port: %v", err)
	}
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = Authorize(ctx, "id", "secret", "http://"+ln.Addr().String()+"/callback")
	if err == nil {
		t.Fatal("Authorize succeeded with the callback port already in use")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Authorize blocked until the deadline instead of surfacing the listen error: %v", err)
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", spotify.Error{Status: 502, Message: "bad gateway"}, true},
		{"rate limited", spotify.Error{Status: 429, Message: "too many requests"}, false},
		{"not found", spotify.Error{Status: 404, Message: "not found"}, false},
		{"plain error", errors.New("connection reset"), false},
	}

	for _, c := range cases {
		if got := isTransient(c.err); got != c.want {
			t.Errorf("%s: isTransient = %v, want %v", c.name, got, c.want)
		}
	}
}
