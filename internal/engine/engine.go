package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/inamate/rig/internal/clipping"
	"github.com/inamate/rig/internal/codec"
	"github.com/inamate/rig/internal/document"
	"github.com/inamate/rig/internal/skeleton"
)

var (
	ErrNoSkeleton = errors.New("no skeleton loaded")
	ErrNotFound   = errors.New("not found")
)

// Engine owns one skeleton instance and poses it for the frontend.
// It processes commands from the frontend and returns query results.
// An Engine is not safe for concurrent use.
type Engine struct {
	// Skeleton state
	data    *skeleton.SkeletonData
	skel    *skeleton.Skeleton
	decoder *codec.Decoder

	// Retained scene graph and the scratch state used to build it
	sceneGraph *SceneGraph
	clipper    clipping.Clipper
	bounds     skeleton.SkeletonBounds

	// Pose requested by the frontend, applied over the setup pose
	pose        map[string]PropertyOverrides
	attachments map[string]string

	// Playback state
	animation *skeleton.Animation
	time      float64
	playing   bool
	fps       float64

	// Selected slots
	selection []string

	// Dirty flag - pose and scene graph need rebuild
	dirty bool
}

// NewEngine creates a new engine instance. A nil loader creates untextured
// attachments.
func NewEngine(loader codec.AttachmentLoader) *Engine {
	return &Engine{
		decoder:    codec.NewDecoder(loader),
		fps:        30,
		sceneGraph: NewSceneGraph(),
		dirty:      true,
	}
}

// --- Commands (frontend → backend) ---

// LoadSkeleton decodes a binary or JSON skeleton and poses it in the
// setup pose.
func (e *Engine) LoadSkeleton(data []byte) error {
	sd, err := e.decoder.Read(data)
	if err != nil {
		return err
	}
	return e.LoadSkeletonData(sd)
}

// LoadSkeletonData poses already decoded setup data. The data is shared,
// never modified.
func (e *Engine) LoadSkeletonData(sd *skeleton.SkeletonData) error {
	skel, err := skeleton.NewSkeleton(sd)
	if err != nil {
		return err
	}

	e.data = sd
	e.skel = skel
	e.fps = sd.FPS
	if e.fps <= 0 {
		e.fps = 30
	}

	e.pose = make(map[string]PropertyOverrides)
	e.attachments = make(map[string]string)
	e.animation = nil
	e.time = 0
	e.playing = false
	e.selection = nil
	e.dirty = true

	logger().Debug("load skeleton", "bones", len(sd.Bones), "slots", len(sd.Slots), "animations", len(sd.Animations))
	return nil
}

// LoadSampleSkeleton loads the built-in sample rig.
func (e *Engine) LoadSampleSkeleton() error {
	sd, err := e.decoder.ReadDocument(document.NewSampleDocument())
	if err != nil {
		return err
	}
	return e.LoadSkeletonData(sd)
}

// SetSkin switches skins. An empty name leaves only the default skin.
func (e *Engine) SetSkin(name string) error {
	if e.skel == nil {
		return ErrNoSkeleton
	}
	if name != "" && e.data.FindSkin(name) == nil {
		return fmt.Errorf("skin %q: %w", name, ErrNotFound)
	}
	if err := e.skel.SetSkinByName(name); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// SetPose replaces the bone overrides. Bones not named keep the setup
// pose, or the animated pose while an animation is set.
func (e *Engine) SetPose(pose map[string]PropertyOverrides) error {
	if e.skel == nil {
		return ErrNoSkeleton
	}
	for name, overrides := range pose {
		if e.data.FindBone(name) == nil {
			return fmt.Errorf("bone %q: %w", name, ErrNotFound)
		}
		if err := ValidateOverrides(overrides); err != nil {
			return fmt.Errorf("bone %q: %w", name, err)
		}
	}

	e.pose = make(map[string]PropertyOverrides, len(pose))
	for name, overrides := range pose {
		e.pose[name] = maps.Clone(overrides)
	}
	e.dirty = true
	return nil
}

// SetAttachments replaces the attachment overrides, slot name to
// attachment name. An empty attachment name hides the slot.
func (e *Engine) SetAttachments(attachments map[string]string) error {
	if e.skel == nil {
		return ErrNoSkeleton
	}
	for slot, name := range attachments {
		sd := e.data.FindSlot(slot)
		if sd == nil {
			return fmt.Errorf("slot %q: %w", slot, ErrNotFound)
		}
		if name != "" && e.skel.AttachmentForSlot(sd.Index, name) == nil {
			return fmt.Errorf("attachment %q for slot %q: %w", name, slot, ErrNotFound)
		}
	}

	e.attachments = maps.Clone(attachments)
	if e.attachments == nil {
		e.attachments = make(map[string]string)
	}
	e.dirty = true
	return nil
}

// MoveBone places a bone's origin at a world position by overriding its
// local x and y. Constraints still apply afterwards, so dragging an IK
// target bends the chain towards it.
func (e *Engine) MoveBone(name string, worldX, worldY float64) error {
	if e.skel == nil {
		return ErrNoSkeleton
	}
	b := e.skel.FindBone(name)
	if b == nil {
		return fmt.Errorf("bone %q: %w", name, ErrNotFound)
	}
	e.update()

	var x, y float64
	if p := b.Parent(); p != nil {
		x, y = p.WorldToLocal(worldX, worldY)
	} else {
		x, y = SkeletonMatrix(e.skel).Invert().TransformPoint(worldX, worldY)
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return fmt.Errorf("bone %q: parent transform is not invertible", name)
	}

	overrides := e.pose[name]
	if overrides == nil {
		overrides = make(PropertyOverrides)
		e.pose[name] = overrides
	}
	overrides["x"] = x
	overrides["y"] = y
	e.dirty = true
	return nil
}

// ResetPose drops all bone and attachment overrides.
func (e *Engine) ResetPose() {
	clear(e.pose)
	clear(e.attachments)
	e.dirty = true
}

// SetAnimation previews the named animation from its start. An empty
// name stops previewing.
func (e *Engine) SetAnimation(name string) error {
	if e.skel == nil {
		return ErrNoSkeleton
	}
	var anim *skeleton.Animation
	if name != "" {
		anim = e.data.FindAnimation(name)
		if anim == nil {
			return fmt.Errorf("animation %q: %w", name, ErrNotFound)
		}
	}
	e.animation = anim
	e.time = 0
	e.dirty = true
	return nil
}

// SetTime sets the animation time in seconds, clamped to its duration.
func (e *Engine) SetTime(t float64) {
	if e.animation == nil {
		return
	}
	t = max(0, min(t, e.animation.Duration))
	if e.time != t {
		e.time = t
		e.dirty = true
	}
}

// Play starts playback.
func (e *Engine) Play() {
	e.playing = true
}

// Pause stops playback.
func (e *Engine) Pause() {
	e.playing = false
}

// TogglePlay toggles play/pause state.
func (e *Engine) TogglePlay() {
	e.playing = !e.playing
}

// SetSelection sets the selected slot names.
func (e *Engine) SetSelection(slots []string) {
	e.selection = slots
}

// Tick advances one frame if playing and returns draw commands.
// This is called once per animation frame from the frontend.
func (e *Engine) Tick() string {
	if e.playing && e.animation != nil {
		if d := e.animation.Duration; d > 0 {
			e.time = math.Mod(e.time+1/e.fps, d)
		}
		e.dirty = true
	}

	return e.Render()
}

// --- Queries (frontend ← backend) ---

// update reposes the skeleton if anything changed: setup pose, then the
// animation, then the frontend's attachment and bone overrides.
func (e *Engine) update() {
	if e.skel == nil || !e.dirty {
		return
	}
	s := e.skel
	s.SetToSetupPose()

	if e.animation != nil {
		eval := EvaluateAnimation(e.data, e.animation, e.time)
		for name, overrides := range eval.Bones {
			e.applyBone(name, overrides)
		}
		for slot, name := range eval.Attachments {
			e.applyAttachment(slot, name)
		}
	}
	for slot, name := range e.attachments {
		e.applyAttachment(slot, name)
	}
	for name, overrides := range e.pose {
		e.applyBone(name, overrides)
	}

	s.UpdateWorldTransform()
	e.sceneGraph = BuildSceneGraph(s, &e.clipper)
	e.bounds.Update(s, true)
	e.dirty = false
}

func (e *Engine) applyBone(name string, overrides PropertyOverrides) {
	if err := ApplyOverridesToBone(e.skel.FindBone(name), overrides); err != nil {
		logger().Warn("apply bone overrides", "bone", name, "error", err)
	}
}

func (e *Engine) applyAttachment(slot, name string) {
	// The skin may have changed since the override was set.
	if err := e.skel.SetAttachment(slot, name); err != nil {
		logger().Debug("skip attachment override", "slot", slot, "error", err)
	}
}

// DrawCommands returns the draw commands of the current pose.
func (e *Engine) DrawCommands() []DrawCommand {
	if e.skel == nil {
		return nil
	}
	e.update()
	return CompileDrawCommands(e.sceneGraph)
}

// Render evaluates the scene graph and returns draw commands as JSON.
func (e *Engine) Render() string {
	result, err := DrawCommandsToJSON(e.DrawCommands())
	if err != nil {
		logger().Error("render", "error", err)
	}
	return result
}

// BoneState is a bone's world transform after posing.
type BoneState struct {
	Name   string    `json:"name"`
	Parent string    `json:"parent,omitempty"`
	World  []float64 `json:"world"` // [a, b, c, d, e, f]
	// Rotation and scale are read back from the world transform.
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Length   float64 `json:"length"`
	Active   bool    `json:"active"`
}

// BoneStates returns every bone in setup order.
func (e *Engine) BoneStates() []BoneState {
	if e.skel == nil {
		return nil
	}
	e.update()

	states := make([]BoneState, 0, len(e.skel.Bones()))
	for _, b := range e.skel.Bones() {
		st := BoneState{
			Name:     b.Data().Name,
			World:    BoneMatrix(b).ToSlice(),
			Rotation: b.WorldRotationX(),
			ScaleX:   b.WorldScaleX(),
			ScaleY:   b.WorldScaleY(),
			Length:   b.Data().Length,
			Active:   b.Active(),
		}
		if p := b.Parent(); p != nil {
			st.Parent = p.Data().Name
		}
		states = append(states, st)
	}
	return states
}

// Bones returns the posed bones as JSON.
func (e *Engine) Bones() string {
	states := e.BoneStates()
	if states == nil {
		return "[]"
	}
	data, _ := json.Marshal(states)
	return string(data)
}

// HitTestResult names what lies under a point. Bounding boxes are tested
// before drawn slots.
type HitTestResult struct {
	BoundingBox string  `json:"boundingBox,omitempty"`
	Slot        string  `json:"slot,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Hit performs a hit test at the given world coordinates.
func (e *Engine) Hit(x, y float64) HitTestResult {
	result := HitTestResult{X: x, Y: y}
	if e.skel == nil {
		return result
	}
	e.update()

	if e.bounds.AABBContainsPoint(x, y) {
		if bb := e.bounds.ContainsPoint(x, y); bb != nil {
			result.BoundingBox = bb.Name()
		}
	}
	result.Slot = HitTest(e.sceneGraph, x, y)
	return result
}

// HitTest performs a hit test and returns the result as JSON.
func (e *Engine) HitTest(x, y float64) string {
	data, _ := json.Marshal(e.Hit(x, y))
	return string(data)
}

// Bounds returns the box around everything drawn as JSON.
func (e *Engine) Bounds() string {
	if e.skel == nil {
		return RectToJSON(Rect{})
	}
	e.update()
	return RectToJSON(e.sceneGraph.Bounds)
}

// GetSelectionBounds returns the bounding box of the current selection as JSON.
func (e *Engine) GetSelectionBounds() string {
	if e.skel == nil || len(e.selection) == 0 {
		return RectToJSON(Rect{})
	}
	e.update()
	return RectToJSON(GetSelectionBounds(e.sceneGraph, e.selection))
}

// GetPlaybackState returns the current playback state as JSON.
func (e *Engine) GetPlaybackState() string {
	state := map[string]any{
		"time":    e.time,
		"playing": e.playing,
		"fps":     e.fps,
	}
	if e.animation != nil {
		state["animation"] = e.animation.Name
		state["duration"] = e.animation.Duration
	}
	data, _ := json.Marshal(state)
	return string(data)
}

// SkeletonInfo lists what a loaded skeleton offers the frontend.
type SkeletonInfo struct {
	Version    string   `json:"version,omitempty"`
	Bones      []string `json:"bones"`
	Slots      []string `json:"slots"`
	Skins      []string `json:"skins"`
	Animations []string `json:"animations"`
	Events     []string `json:"events"`
	Skin       string   `json:"skin,omitempty"`
}

// Info describes the loaded skeleton.
func (e *Engine) Info() SkeletonInfo {
	info := SkeletonInfo{}
	if e.data == nil {
		return info
	}
	sd := e.data
	info.Version = sd.Version
	for _, b := range sd.Bones {
		info.Bones = append(info.Bones, b.Name)
	}
	for _, s := range sd.Slots {
		info.Slots = append(info.Slots, s.Name)
	}
	for _, s := range sd.Skins {
		info.Skins = append(info.Skins, s.Name)
	}
	for _, a := range sd.Animations {
		info.Animations = append(info.Animations, a.Name)
	}
	for _, ev := range sd.Events {
		info.Events = append(info.Events, ev.Name)
	}
	if skin := e.skel.Skin(); skin != nil {
		info.Skin = skin.Name
	}
	return info
}

// GetInfo returns Info as JSON.
func (e *Engine) GetInfo() string {
	data, _ := json.Marshal(e.Info())
	return string(data)
}

// Data returns the loaded setup data, or nil.
func (e *Engine) Data() *skeleton.SkeletonData {
	return e.data
}

// GetTime returns the animation time in seconds.
func (e *Engine) GetTime() float64 {
	return e.time
}

// IsPlaying returns whether playback is active.
func (e *Engine) IsPlaying() bool {
	return e.playing
}

// GetFPS returns the frames per second.
func (e *Engine) GetFPS() float64 {
	return e.fps
}
