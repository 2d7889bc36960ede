package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/reelbox/reelbox/log"
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/storage"
)

var logger = log.For("network")

// Remote drives a player exposed by the control server.
type Remote struct {
	base   string
	client *http.Client
}

var _ player.Player = (*Remote)(nil)

// NewRemote returns a remote player for the server at addr ("host:port" or a URL).
func NewRemote(addr string) *Remote {
	base := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Remote{base: base, client: Client}
}

// Play implements player.Player.
func (r *Remote) Play(ctx context.Context, path string) error {
	return r.do(ctx, http.MethodPost, "/api/play", map[string]string{"path": path}, nil, player.ErrStartFailed)
}

// Stop implements player.Player.
func (r *Remote) Stop(ctx context.Context) error {
	return r.do(ctx, http.MethodPost, "/api/stop", nil, nil, player.ErrStopFailed)
}

// SetLoop implements player.Player. Failures are logged only.
func (r *Remote) SetLoop(enabled bool) {
	if err := r.do(context.Background(), http.MethodPut, "/api/loop", map[string]bool{"enabled": enabled}, nil, nil); err != nil {
		logger.WithError(err).Warnf("set loop")
	}
}

// Status implements player.Player. An unreachable server reads as uninitialized.
func (r *Remote) Status() player.Status {
	st, err := r.Fetch(context.Background())
	if err != nil {
		logger.WithError(err).Warnf("status")
	}
	return st
}

// Fetch returns the server's player status.
func (r *Remote) Fetch(ctx context.Context) (player.Status, error) {
	var st player.Status
	err := r.do(ctx, http.MethodGet, "/api/status", nil, &st, nil)
	return st, err
}

// Clips lists the clips the server can play. The server applies its own extension filter.
func (r *Remote) Clips(...string) ([]storage.Entry, error) {
	var clips []storage.Entry
	err := r.do(context.Background(), http.MethodGet, "/api/clips", nil, &clips, nil)
	return clips, err
}

func (r *Remote) do(ctx context.Context, method, path string, body, out any, upstream error) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return remoteError(resp.StatusCode, payload.Error, upstream)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// remoteError maps a status code back onto the controller's error kinds.
func remoteError(code int, msg string, upstream error) error {
	var kind error
	switch code {
	case http.StatusBadRequest:
		kind = player.ErrInvalidArgument
	case http.StatusNotFound:
		kind = player.ErrNotFound
	case http.StatusConflict:
		kind = player.ErrBusy
	case http.StatusBadGateway:
		kind = upstream
	case http.StatusServiceUnavailable:
		kind = player.ErrNotInitialized
	}

	if kind == nil {
		kind = errors.New(http.StatusText(code))
	}
	return fmt.Errorf("%w: %s", kind, msg)
}
