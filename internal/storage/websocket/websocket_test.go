package websocket

import (
	"bytes"
	"encoding/json"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"github.com/sentinelc2/client/internal/frame"
	"github.com/sentinelc2/client/internal/world"
	"github.com/sentinelc2/client/pkg/core"
	"github.com/sentinelc2/client/pkg/streaming"
)

// testServer creates an httptest server that upgrades to WebSocket,
// records received envelopes, and acks hello/goodbye.
func testServer(t *testing.T) (*httptest.Server, *messageLog) {
	t.Helper()
	ml := &messageLog{}

	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer c.Close()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}

			var env streaming.Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				continue
			}
			ml.add(env)

			if env.Type == streaming.TypeHello || env.Type == streaming.TypeGoodbye {
				ack := streaming.AckMessage{Type: "ack", For: env.Type}
				data, _ := json.Marshal(ack)
				if err := c.WriteMessage(ws.TextMessage, data); err != nil {
					return
				}
			}
		}
	}))

	return srv, ml
}

type messageLog struct {
	mu        sync.Mutex
	envelopes []streaming.Envelope
}

func (m *messageLog) add(env streaming.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.envelopes = append(m.envelopes, env)
}

func (m *messageLog) all() []streaming.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]streaming.Envelope, len(m.envelopes))
	copy(cp, m.envelopes)
	return cp
}

func (m *messageLog) count(msgType string) int {
	n := 0
	for _, env := range m.all() {
		if env.Type == msgType {
			n++
		}
	}
	return n
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testViewport(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 180
	}
	return img
}

func TestHelloAndGoodbye(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	w := world.New(6371000)
	b := New(Config{URL: wsURL(srv), Secret: "test", ClientName: "sentinel", Tenant: "acme"}, w, testLogger())
	require.NoError(t, b.Init())
	require.NoError(t, b.Close())

	msgs := ml.all()
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Equal(t, streaming.TypeHello, msgs[0].Type)
	assert.Equal(t, streaming.TypeGoodbye, msgs[len(msgs)-1].Type)

	var hello streaming.HelloPayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &hello))
	assert.Equal(t, "sentinel", hello.Client)
	assert.Equal(t, "acme", hello.Tenant)
}

func TestPresent_StreamsFrameAndStatus(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	w := world.New(6371000)
	w.Upsert(1, world.Fields{Geo: &core.GeoPos{LatDeg: 10, LonDeg: 20}})

	b := New(Config{
		URL:            wsURL(srv),
		FrameEvery:     1,
		StatusInterval: time.Millisecond,
	}, w, testLogger())
	require.NoError(t, b.Init())
	defer b.Close()

	timings := frame.Snapshot{FrameMs: 5, FPS: 30}
	layers := []core.LayerStats{{Kind: core.TileBase, Loaded: 4}}
	require.NoError(t, b.Present(testViewport(8, 6), nil, timings, layers))

	require.Eventually(t, func() bool {
		return ml.count(streaming.TypeFrame) >= 1 &&
			ml.count(streaming.TypeEntities) >= 1 &&
			ml.count(streaming.TypeLayerStats) >= 1 &&
			ml.count(streaming.TypeTimings) >= 1
	}, 2*time.Second, 10*time.Millisecond, "expected frame and status envelopes")

	for _, env := range ml.all() {
		switch env.Type {
		case streaming.TypeFrame:
			var p streaming.FramePayload
			require.NoError(t, json.Unmarshal(env.Payload, &p))
			assert.Equal(t, 8, p.Width)
			assert.Equal(t, 6, p.Height)
			assert.Equal(t, "webp", p.Encoding)
			decoded, err := webp.Decode(bytes.NewReader(p.Data))
			require.NoError(t, err)
			assert.Equal(t, 8, decoded.Bounds().Dx())
		case streaming.TypeEntities:
			var p streaming.EntitiesPayload
			require.NoError(t, json.Unmarshal(env.Payload, &p))
			require.Len(t, p.Entities, 1)
			assert.Equal(t, core.EntityID(1), p.Entities[0].ID)
			assert.Equal(t, 10.0, p.Entities[0].Lat)
		case streaming.TypeTimings:
			var p streaming.TimingsPayload
			require.NoError(t, json.Unmarshal(env.Payload, &p))
			assert.Equal(t, 5.0, p.FrameMs)
			assert.Equal(t, 30.0, p.FPS)
		}
	}
}

func TestPresent_FrameThrottle(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	w := world.New(6371000)
	b := New(Config{
		URL:            wsURL(srv),
		FrameEvery:     2,
		StatusInterval: time.Hour,
	}, w, testLogger())
	require.NoError(t, b.Init())
	defer b.Close()

	vp := testViewport(4, 4)
	for i := 0; i < 4; i++ {
		require.NoError(t, b.Present(vp, nil, frame.Snapshot{}, nil))
	}

	require.Eventually(t, func() bool {
		return ml.count(streaming.TypeFrame) == 2
	}, 2*time.Second, 10*time.Millisecond, "expected every second frame streamed")
}
