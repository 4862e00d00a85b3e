package live

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/rig/internal/codec"
	"github.com/inamate/rig/internal/document"
	"github.com/inamate/rig/internal/engine"
	"github.com/inamate/rig/internal/skeleton"
)

const testSkeletonID = "skel_sample"

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	sd, err := codec.NewDecoder(nil).ReadDocument(document.NewSampleDocument())
	if err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	load := func(ctx context.Context, id string) (*skeleton.SkeletonData, error) {
		if id != testSkeletonID {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return sd, nil
	}

	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	r := mux.NewRouter()
	r.Handle("/ws/skeletons/{id}", NewHandler(hub, load, nil))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

func dial(t *testing.T, ctx context.Context, srv *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/skeletons/" + testSkeletonID + "?name=" + name
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ, payload string) {
	t.Helper()
	data, _ := json.Marshal(Message{Type: typ, Payload: json.RawMessage(payload)})
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads messages until one of type typ arrives.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string) Message {
	t.Helper()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read waiting for %s: %v", typ, err)
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func boneRotation(f engine.Frame, name string) float64 {
	for _, b := range f.Bones {
		if b.Name == name {
			return b.Rotation
		}
	}
	return math.NaN()
}

func TestRoomSharesPose(t *testing.T) {
	srv, hub := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alice := dial(t, ctx, srv, "alice")
	defer alice.CloseNow()

	var welcome WelcomePayload
	msg := readUntil(t, ctx, alice, TypeWelcome)
	if err := json.Unmarshal(msg.Payload, &welcome); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if welcome.ClientID == "" || welcome.Seq != 0 {
		t.Errorf("welcome = %+v", welcome)
	}
	if !slices.Contains(welcome.Info.Skins, "armored") || len(welcome.Frame.Commands) != 3 {
		t.Errorf("welcome info %+v, %d commands", welcome.Info, len(welcome.Frame.Commands))
	}

	bob := dial(t, ctx, srv, "bob")
	defer bob.CloseNow()
	readUntil(t, ctx, bob, TypeWelcome)

	join := readUntil(t, ctx, alice, TypePresenceJoin)
	var joined PresenceJoinPayload
	json.Unmarshal(join.Payload, &joined)
	if joined.DisplayName != "bob" {
		t.Errorf("join = %+v", joined)
	}
	if n := hub.RoomCount(); n != 1 {
		t.Errorf("RoomCount = %d, want 1", n)
	}

	send(t, ctx, alice, TypePoseUpdate, `{"bones":{"torso":{"rotation":100}}}`)
	for _, conn := range []*websocket.Conn{alice, bob} {
		msg := readUntil(t, ctx, conn, TypePoseFrame)
		var fp FramePayload
		if err := json.Unmarshal(msg.Payload, &fp); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if msg.Seq != 1 || fp.ClientID != welcome.ClientID {
			t.Errorf("frame seq %d from %q", msg.Seq, fp.ClientID)
		}
		if got := boneRotation(fp.Frame, "torso"); math.Abs(got-100) > 1e-9 {
			t.Errorf("torso rotation = %v, want 100", got)
		}
	}

	// A rejected update reports to its sender and keeps the shared pose.
	send(t, ctx, bob, TypePoseUpdate, `{"skin":"gold"}`)
	errMsg := readUntil(t, ctx, bob, TypeError)
	var ep ErrorPayload
	json.Unmarshal(errMsg.Payload, &ep)
	if !strings.Contains(ep.Message, "gold") {
		t.Errorf("error = %q", ep.Message)
	}
	msg = readUntil(t, ctx, bob, TypePoseFrame)
	var fp FramePayload
	json.Unmarshal(msg.Payload, &fp)
	if msg.Seq != 2 {
		t.Errorf("seq = %d, want 2", msg.Seq)
	}
	if got := boneRotation(fp.Frame, "torso"); math.Abs(got-100) > 1e-9 {
		t.Errorf("torso rotation after rejected update = %v, want 100", got)
	}

	send(t, ctx, bob, TypePresenceUpdate, `{"selection":["torso"]}`)
	msg = readUntil(t, ctx, alice, TypePresenceUpdate)
	var pp PresencePayload
	json.Unmarshal(msg.Payload, &pp)
	if pp.DisplayName != "bob" || !slices.Equal(pp.Selection, []string{"torso"}) {
		t.Errorf("presence = %+v", pp)
	}

	send(t, ctx, alice, "pose.explode", `{}`)
	readUntil(t, ctx, alice, TypeError)

	bob.Close(websocket.StatusNormalClosure, "")
	leave := readUntil(t, ctx, alice, TypePresenceLeave)
	if leave.ClientID == "" || leave.ClientID == welcome.ClientID {
		t.Errorf("leave from %q", leave.ClientID)
	}

	alice.Close(websocket.StatusNormalClosure, "")
	deadline := time.Now().Add(5 * time.Second)
	for hub.RoomCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("room was not removed after the last client left")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestUnknownSkeleton(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/ws/skeletons/skel_missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestOriginPatterns(t *testing.T) {
	got := OriginPatterns([]string{"http://localhost:5173", "https://rig.example.com", "*.example.org"})
	want := []string{"localhost:5173", "rig.example.com", "*.example.org"}
	if !slices.Equal(got, want) {
		t.Errorf("OriginPatterns = %q, want %q", got, want)
	}
}
