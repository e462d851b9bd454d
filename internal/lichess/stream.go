package lichess

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/okhara/lichess-gatekeeper/internal/obslog"
	"github.com/okhara/lichess-gatekeeper/pkg/lichessdto"
)

// EventCallback receives each decoded event from the account stream.
type EventCallback func(*lichessdto.Event)

// EventStream consumes the long-lived NDJSON account event stream and
// redials with backoff when the connection drops. The server sends a
// blank keep-alive line every few seconds, so the read loop observes
// shutdown promptly even when no events arrive.
type EventStream struct {
	baseURL string
	token   string
	http    *fasthttp.Client

	cbM sync.RWMutex
	cbs []EventCallback

	maxReconnectAttempts int

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewEventStream(baseURL, token string, maxReconnectAttempts int) *EventStream {
	return &EventStream{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		// ReadTimeout stays zero: the response body is open-ended.
		http:                 &fasthttp.Client{StreamResponseBody: true, WriteTimeout: 10 * time.Second},
		maxReconnectAttempts: maxReconnectAttempts,
		stopCh:               make(chan struct{}),
	}
}

// OnEvent registers a callback; register before Start.
func (s *EventStream) OnEvent(cb EventCallback) {
	s.cbM.Lock()
	defer s.cbM.Unlock()
	s.cbs = append(s.cbs, cb)
}

// Start launches the consume loop in the background.
func (s *EventStream) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *EventStream) run(ctx context.Context) {
	defer s.wg.Done()
	attempt := 0
	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		err := s.consume()
		if s.isStopping() {
			return
		}
		if err == nil {
			// Server closed the stream cleanly; redial right away.
			attempt = 0
			continue
		}
		attempt++
		if s.maxReconnectAttempts > 0 && attempt > s.maxReconnectAttempts {
			obslog.L().Error("event_stream_gave_up", zap.Int("attempts", attempt-1), zap.Error(err))
			return
		}
		obslog.L().Warn("event_stream_reconnect", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(backoffDuration(attempt)):
		}
	}
}

// consume reads one connection's worth of events.
func (s *EventStream) consume() error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(s.baseURL + "/api/stream/event")
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/x-ndjson")

	if err := s.http.Do(req, resp); err != nil {
		return err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("event stream error: status=%d", resp.StatusCode())
	}

	defer func() { _ = resp.CloseBodyStream() }()
	scanner := bufio.NewScanner(resp.BodyStream())
	scanner.Buffer(make([]byte, 0, 16*1024), 1024*1024)
	for scanner.Scan() {
		if s.isStopping() {
			return nil
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue // keep-alive
		}
		var ev lichessdto.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			obslog.L().Warn("event_stream_bad_line", zap.Error(err), zap.ByteString("line", line[:min(len(line), 256)]))
			continue
		}
		s.dispatch(&ev)
	}
	return scanner.Err()
}

func (s *EventStream) dispatch(ev *lichessdto.Event) {
	s.cbM.RLock()
	cbs := make([]EventCallback, len(s.cbs))
	copy(cbs, s.cbs)
	s.cbM.RUnlock()
	for _, cb := range cbs {
		if cb != nil {
			cb(ev)
		}
	}
}

// Close stops the loop. The reader notices at the next line, which the
// keep-alive cadence bounds to a few seconds.
func (s *EventStream) Close(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (s *EventStream) isStopping() bool {
	select {
	case <-s.stopCh:
		return true
	default:
		return false
	}
}
