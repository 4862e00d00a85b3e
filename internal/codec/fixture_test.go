package codec

import "strings"

// String table of rigBinary; references are index+1.
const (
	refBody = iota + 1
	refHead
	refTail
	refAlt
	refHit
)

// rigBinary encodes the same rig as rigJSON: four bones, two slots, a
// two-bone IK constraint, a region, a mesh and a linked mesh in a second
// skin, one event and an animation keying every timeline family it can.
func rigBinary() []byte {
	var w writer
	w.i64(0)
	w.str("4.0.64")
	w.floats(-10, -5, 100, 200)
	w.boolean(true)
	w.float(24)
	w.str("./img/")
	w.null() // audio

	w.uvar(5)
	for _, s := range []string{"body", "head", "tail", "alt", "hit"} {
		w.str(s)
	}

	// Bones: name, [parent], rotation, x, y, scaleX, scaleY, shearX,
	// shearY, length, transform mode, skin required, color.
	w.uvar(4)
	w.str("root")
	w.floats(0, 0, 0, 1, 1, 0, 0, 0)
	w.uvar(0)
	w.boolean(false)
	w.u32(0xff0000ff)

	w.str("arm")
	w.uvar(0)
	w.floats(90, 10, 0, 1, 1, 0, 0, 20)
	w.uvar(0)
	w.boolean(false)
	w.u32(0x9c9c9cff)

	w.str("hand")
	w.uvar(1)
	w.floats(0, 20, 0, 1, 1, 0, 0, 0)
	w.uvar(0)
	w.boolean(false)
	w.u32(0x9c9c9cff)

	w.str("target")
	w.uvar(0)
	w.floats(0, 30, 10, 1, 1, 0, 0, 0)
	w.uvar(0)
	w.boolean(false)
	w.u32(0x9c9c9cff)

	// Slots.
	w.uvar(2)
	w.str("body")
	w.uvar(0)
	w.u32(0xffffffff)
	w.i32(-1)
	w.ref(refBody)
	w.uvar(0)

	w.str("head")
	w.uvar(1)
	w.u32(0xffffffff)
	w.i32(0x00ff00)
	w.ref(0)
	w.uvar(1) // additive

	// IK.
	w.uvar(1)
	w.str("reach")
	w.uvar(0)
	w.boolean(false)
	w.uvar(2)
	w.uvar(1)
	w.uvar(2)
	w.uvar(3)
	w.float(1)
	w.float(2)
	w.sbyte(-1)
	w.boolean(false)
	w.boolean(true)
	w.boolean(false)

	w.uvar(0) // transform
	w.uvar(0) // path

	// Default skin: slot body holds a region and a mesh.
	w.uvar(1)
	w.uvar(0)
	w.uvar(2)

	w.ref(refBody)
	w.ref(0)
	w.u8(0)
	w.ref(0)
	w.floats(0, 1, 2, 1, 1, 32, 16)
	w.u32(0xffffffff)

	w.ref(refTail)
	w.ref(0)
	w.u8(2)
	w.ref(0)
	w.u32(0xffffffff)
	w.uvar(3)
	w.floats(0, 0, 1, 0, 0, 1)
	w.uvar(3)
	w.short(0)
	w.short(1)
	w.short(2)
	w.boolean(false)
	w.floats(0, 0, 10, 0, 0, 10)
	w.uvar(3)
	w.uvar(0) // edges
	w.floats(10, 10)

	// Skin alt: the IK constraint and a mesh linked to tail.
	w.uvar(1)
	w.ref(refAlt)
	w.uvar(0)
	w.uvar(1)
	w.uvar(0)
	w.uvar(0)
	w.uvar(0)
	w.uvar(1)
	w.uvar(0)
	w.uvar(1)
	w.ref(refHead)
	w.ref(0)
	w.u8(3)
	w.ref(0)
	w.u32(0xffffffff)
	w.ref(0)
	w.ref(refTail)
	w.boolean(true)
	w.floats(10, 10)

	// Events.
	w.uvar(1)
	w.ref(refHit)
	w.varint(-3, false)
	w.float(0.5)
	w.str("boom")
	w.str("hit.wav")
	w.floats(0.75, -0.5)

	// Animation walk.
	w.uvar(1)
	w.str("walk")
	w.uvar(6)

	// Slot head: attachment and alpha.
	w.uvar(1)
	w.uvar(1)
	w.uvar(2)
	w.u8(0)
	w.uvar(2)
	w.float(0)
	w.ref(refBody)
	w.float(0.5)
	w.ref(0)
	w.u8(5)
	w.uvar(2)
	w.uvar(0)
	w.float(0)
	w.u8(255)
	w.float(1)
	w.u8(0)
	w.sbyte(1) // stepped

	// Bone arm: rotate 0 to 90 on a bezier.
	w.uvar(1)
	w.uvar(1)
	w.uvar(1)
	w.u8(0)
	w.uvar(2)
	w.uvar(1)
	w.floats(0, 0)
	w.floats(1, 90)
	w.sbyte(2)
	w.floats(0.25, 0, 0.75, 90)

	// IK reach.
	w.uvar(1)
	w.uvar(0)
	w.uvar(2)
	w.uvar(0)
	w.floats(0, 1, 2)
	w.sbyte(1)
	w.boolean(false)
	w.boolean(true)
	w.floats(1, 0.5, 4)
	w.sbyte(0)
	w.sbyte(-1)
	w.boolean(false)
	w.boolean(false)

	w.uvar(0) // transform
	w.uvar(0) // path

	// Deform tail in the default skin.
	w.uvar(1)
	w.uvar(0)
	w.uvar(1)
	w.uvar(0)
	w.uvar(1)
	w.ref(refTail)
	w.uvar(2)
	w.uvar(0)
	w.float(0)
	w.uvar(0)
	w.float(1)
	w.sbyte(0)
	w.uvar(2)
	w.uvar(0)
	w.floats(1, 1)

	// Draw order: body moves after head.
	w.uvar(1)
	w.float(0.5)
	w.uvar(1)
	w.uvar(0)
	w.uvar(1)

	// Events.
	w.uvar(1)
	w.float(0.25)
	w.uvar(0)
	w.varint(7, false)
	w.float(1.5)
	w.boolean(true)
	w.str("pop")
	w.floats(0.5, 0)

	return w.Bytes()
}

var rigJSON = strings.TrimSpace(`
{
  "skeleton": {"spine": "4.0.64", "x": -10, "y": -5, "width": 100, "height": 200, "fps": 24, "images": "./img/"},
  "bones": [
    {"name": "root", "color": "ff0000ff"},
    {"name": "arm", "parent": "root", "rotation": 90, "x": 10, "length": 20},
    {"name": "hand", "parent": "arm", "x": 20},
    {"name": "target", "parent": "root", "x": 30, "y": 10}
  ],
  "slots": [
    {"name": "body", "bone": "root", "attachment": "body"},
    {"name": "head", "bone": "arm", "color": "ffffffff", "dark": "00ff00", "blend": "additive"}
  ],
  "ik": [
    {"name": "reach", "bones": ["arm", "hand"], "target": "target", "softness": 2, "bendPositive": false, "stretch": true}
  ],
  "skins": [
    {"name": "default", "attachments": {"body": {
      "body": {"x": 1, "y": 2, "width": 32, "height": 16},
      "tail": {"type": "mesh", "uvs": [0, 0, 1, 0, 0, 1], "triangles": [0, 1, 2], "vertices": [0, 0, 10, 0, 0, 10], "hull": 3, "width": 10, "height": 10}
    }}},
    {"name": "alt", "ik": ["reach"], "attachments": {"body": {
      "head": {"type": "mesh", "parent": "tail", "width": 10, "height": 10}
    }}}
  ],
  "events": {
    "hit": {"int": -3, "float": 0.5, "string": "boom", "audio": "hit.wav", "volume": 0.75, "balance": -0.5}
  },
  "animations": {
    "walk": {
      "slots": {"head": {
        "attachment": [{"name": "body"}, {"time": 0.5, "name": null}],
        "alpha": [{"value": 1, "curve": "stepped"}, {"time": 1}]
      }},
      "bones": {"arm": {"rotate": [{"curve": [0.25, 0, 0.75, 90]}, {"time": 1, "value": 90}]}},
      "ik": {"reach": [{"softness": 2, "stretch": true}, {"time": 1, "mix": 0.5, "softness": 4, "bendPositive": false}]},
      "deform": {"default": {"body": {"tail": [{}, {"time": 1, "vertices": [1, 1]}]}}},
      "drawOrder": [{"time": 0.5, "offsets": [{"slot": "body", "offset": 1}]}],
      "events": [{"time": 0.25, "name": "hit", "int": 7, "float": 1.5, "string": "pop", "volume": 0.5, "balance": 0}]
    }
  }
}`)
