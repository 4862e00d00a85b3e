package live

import (
	"fmt"
	"sync"

	"github.com/inamate/rig/internal/engine"
	"github.com/inamate/rig/internal/skeleton"
)

// Room is everyone posing one skeleton. Its engine is shared, so every
// pose.update builds on the ones before it.
type Room struct {
	skeletonID string
	clients    map[string]*Client // clientID -> client, guarded by Hub.mu
	presence   *PresenceManager

	mu     sync.Mutex
	engine *engine.Engine
	seq    int64
}

func NewRoom(skeletonID string, sd *skeleton.SkeletonData) (*Room, error) {
	e := engine.NewEngine(nil)
	if err := e.LoadSkeletonData(sd); err != nil {
		return nil, fmt.Errorf("load skeleton %s: %w", skeletonID, err)
	}
	return &Room{
		skeletonID: skeletonID,
		clients:    make(map[string]*Client),
		presence:   NewPresenceManager(),
		engine:     e,
	}, nil
}

// welcome describes the room as it is now. Callers hold r.mu.
func (r *Room) welcome(clientID string) WelcomePayload {
	return WelcomePayload{
		ClientID:  clientID,
		Seq:       r.seq,
		Info:      r.engine.Info(),
		Frame:     r.engine.Frame(),
		Presences: r.presence.GetAll(),
	}
}

// apply poses the shared engine. Callers hold r.mu. A rejected pose may
// leave earlier parts of p applied; the sequence number still advances so
// the next frame reflects them.
func (r *Room) apply(p engine.Pose) (engine.Frame, int64, error) {
	err := r.engine.ApplyPose(p)
	r.seq++
	return r.engine.Frame(), r.seq, err
}
