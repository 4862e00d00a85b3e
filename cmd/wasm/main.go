//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/rig/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(nil)

	// Create the engine API object
	rigEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	rigEngine.Set("loadSkeleton", js.FuncOf(loadSkeleton))
	rigEngine.Set("loadSampleSkeleton", js.FuncOf(loadSampleSkeleton))
	rigEngine.Set("setSkin", js.FuncOf(setSkin))
	rigEngine.Set("setPose", js.FuncOf(setPose))
	rigEngine.Set("setAttachments", js.FuncOf(setAttachments))
	rigEngine.Set("applyPose", js.FuncOf(applyPose))
	rigEngine.Set("moveBone", js.FuncOf(moveBone))
	rigEngine.Set("resetPose", js.FuncOf(resetPose))
	rigEngine.Set("setAnimation", js.FuncOf(setAnimation))
	rigEngine.Set("setTime", js.FuncOf(setTime))
	rigEngine.Set("play", js.FuncOf(play))
	rigEngine.Set("pause", js.FuncOf(pause))
	rigEngine.Set("togglePlay", js.FuncOf(togglePlay))
	rigEngine.Set("setSelection", js.FuncOf(setSelection))
	rigEngine.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← backend) ---
	rigEngine.Set("render", js.FuncOf(render))
	rigEngine.Set("getBones", js.FuncOf(getBones))
	rigEngine.Set("getFrame", js.FuncOf(getFrame))
	rigEngine.Set("hitTest", js.FuncOf(hitTest))
	rigEngine.Set("getBounds", js.FuncOf(getBounds))
	rigEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	rigEngine.Set("getPlaybackState", js.FuncOf(getPlaybackState))
	rigEngine.Set("getInfo", js.FuncOf(getInfo))
	rigEngine.Set("getTime", js.FuncOf(getTime))
	rigEngine.Set("isPlaying", js.FuncOf(isPlaying))
	rigEngine.Set("getFPS", js.FuncOf(getFPS))

	// Register on global scope
	js.Global().Set("rigEngine", rigEngine)

	// Signal that WASM is ready
	js.Global().Set("rigWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func missing(what string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": "missing " + what})
}

// --- Command Handlers ---

// loadSkeleton takes a JSON string or a Uint8Array holding a binary
// skeleton.
func loadSkeleton(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("skeleton data")
	}

	var data []byte
	if args[0].Type() == js.TypeString {
		data = []byte(args[0].String())
	} else {
		data = make([]byte, args[0].Get("length").Int())
		js.CopyBytesToGo(data, args[0])
	}
	return result(eng.LoadSkeleton(data))
}

func loadSampleSkeleton(this js.Value, args []js.Value) interface{} {
	return result(eng.LoadSampleSkeleton())
}

func setSkin(this js.Value, args []js.Value) interface{} {
	name := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		name = args[0].String()
	}
	return result(eng.SetSkin(name))
}

func setPose(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("pose JSON")
	}
	var pose map[string]engine.PropertyOverrides
	if err := json.Unmarshal([]byte(args[0].String()), &pose); err != nil {
		return result(err)
	}
	return result(eng.SetPose(pose))
}

func setAttachments(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("attachments JSON")
	}
	var attachments map[string]string
	if err := json.Unmarshal([]byte(args[0].String()), &attachments); err != nil {
		return result(err)
	}
	return result(eng.SetAttachments(attachments))
}

func applyPose(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("pose JSON")
	}
	var pose engine.Pose
	if err := json.Unmarshal([]byte(args[0].String()), &pose); err != nil {
		return result(err)
	}
	return result(eng.ApplyPose(pose))
}

func moveBone(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return missing("bone and position")
	}
	return result(eng.MoveBone(args[0].String(), args[1].Float(), args[2].Float()))
}

func resetPose(this js.Value, args []js.Value) interface{} {
	eng.ResetPose()
	return nil
}

func setAnimation(this js.Value, args []js.Value) interface{} {
	name := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		name = args[0].String()
	}
	return result(eng.SetAnimation(name))
}

func setTime(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetTime(args[0].Float())
	return nil
}

func play(this js.Value, args []js.Value) interface{} {
	eng.Play()
	return nil
}

func pause(this js.Value, args []js.Value) interface{} {
	eng.Pause()
	return nil
}

func togglePlay(this js.Value, args []js.Value) interface{} {
	eng.TogglePlay()
	return nil
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		eng.SetSelection(nil)
		return nil
	}

	arr := args[0]
	if arr.Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}

	length := arr.Length()
	slots := make([]string, length)
	for i := 0; i < length; i++ {
		slots[i] = arr.Index(i).String()
	}
	eng.SetSelection(slots)
	return nil
}

func tick(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Tick())
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func getBones(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Bones())
}

func getFrame(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(eng.Frame())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("{}")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func getBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Bounds())
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getPlaybackState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetPlaybackState())
}

func getInfo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetInfo())
}

func getTime(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetTime())
}

func isPlaying(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.IsPlaying())
}

func getFPS(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetFPS())
}
