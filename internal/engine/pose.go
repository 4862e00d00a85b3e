package engine

// Pose is one posing request. Nil fields leave that part of the engine's
// state alone; drags are applied last, in order.
type Pose struct {
	Skin        *string                      `json:"skin,omitempty"`
	Animation   *string                      `json:"animation,omitempty"`
	Time        *float64                     `json:"time,omitempty"`
	Bones       map[string]PropertyOverrides `json:"bones,omitempty"`
	Attachments map[string]string            `json:"attachments,omitempty"`
	Drags       []Drag                       `json:"drags,omitempty"`
}

// Drag moves a bone's origin to a world position.
type Drag struct {
	Bone string  `json:"bone"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Frame is the posed result sent back to clients.
type Frame struct {
	Bones    []BoneState   `json:"bones"`
	Commands []DrawCommand `json:"commands"`
	Bounds   Rect          `json:"bounds"`
}

// ApplyPose applies p. It stops at the first invalid part; parts applied
// before it stay applied.
func (e *Engine) ApplyPose(p Pose) error {
	if p.Skin != nil {
		if err := e.SetSkin(*p.Skin); err != nil {
			return err
		}
	}
	if p.Animation != nil {
		if err := e.SetAnimation(*p.Animation); err != nil {
			return err
		}
	}
	if p.Time != nil {
		e.SetTime(*p.Time)
	}
	if p.Bones != nil {
		if err := e.SetPose(p.Bones); err != nil {
			return err
		}
	}
	if p.Attachments != nil {
		if err := e.SetAttachments(p.Attachments); err != nil {
			return err
		}
	}
	for _, d := range p.Drags {
		if err := e.MoveBone(d.Bone, d.X, d.Y); err != nil {
			return err
		}
	}
	return nil
}

// Frame returns the current pose.
func (e *Engine) Frame() Frame {
	f := Frame{
		Bones:    e.BoneStates(),
		Commands: e.DrawCommands(),
	}
	if e.skel != nil {
		f.Bounds = e.sceneGraph.Bounds
	}
	if f.Bones == nil {
		f.Bones = []BoneState{}
	}
	if f.Commands == nil {
		f.Commands = []DrawCommand{}
	}
	return f
}
