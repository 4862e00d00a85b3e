package codec

import (
	"fmt"

	"github.com/inamate/rig/internal/skeleton"
)

// AttachmentLoader creates the attachments a decoder fills in. It decides
// where textures come from. Returning ErrSkip leaves a region, mesh or
// bounding box attachment out of the skin; any other error aborts the
// decode.
type AttachmentLoader interface {
	NewRegionAttachment(skin *skeleton.Skin, name, path string) (*skeleton.RegionAttachment, error)
	NewMeshAttachment(skin *skeleton.Skin, name, path string) (*skeleton.MeshAttachment, error)
	NewBoundingBoxAttachment(skin *skeleton.Skin, name string) (*skeleton.BoundingBoxAttachment, error)
	NewPathAttachment(skin *skeleton.Skin, name string) (*skeleton.PathAttachment, error)
	NewPointAttachment(skin *skeleton.Skin, name string) (*skeleton.PointAttachment, error)
	NewClippingAttachment(skin *skeleton.Skin, name string) (*skeleton.ClippingAttachment, error)
}

// GeometryLoader creates attachments with no texture. Region and mesh UVs
// span the unit square.
type GeometryLoader struct{}

func (GeometryLoader) NewRegionAttachment(_ *skeleton.Skin, name, _ string) (*skeleton.RegionAttachment, error) {
	a := skeleton.NewRegionAttachment(name)
	a.SetUVs(0, 0, 1, 1, false)
	return a, nil
}

func (GeometryLoader) NewMeshAttachment(_ *skeleton.Skin, name, _ string) (*skeleton.MeshAttachment, error) {
	return skeleton.NewMeshAttachment(name), nil
}

func (GeometryLoader) NewBoundingBoxAttachment(_ *skeleton.Skin, name string) (*skeleton.BoundingBoxAttachment, error) {
	return skeleton.NewBoundingBoxAttachment(name), nil
}

func (GeometryLoader) NewPathAttachment(_ *skeleton.Skin, name string) (*skeleton.PathAttachment, error) {
	return skeleton.NewPathAttachment(name), nil
}

func (GeometryLoader) NewPointAttachment(_ *skeleton.Skin, name string) (*skeleton.PointAttachment, error) {
	return skeleton.NewPointAttachment(name), nil
}

func (GeometryLoader) NewClippingAttachment(_ *skeleton.Skin, name string) (*skeleton.ClippingAttachment, error) {
	return skeleton.NewClippingAttachment(name), nil
}

// Atlas maps attachment paths to packed texture regions.
type Atlas map[string]*skeleton.TextureRegion

// AtlasAttachmentLoader resolves region and mesh textures from an atlas.
// A path missing from the atlas fails the decode, or skips the attachment
// when SkipMissing is set.
type AtlasAttachmentLoader struct {
	GeometryLoader
	Atlas       Atlas
	SkipMissing bool
}

func (l *AtlasAttachmentLoader) region(name, path string) (*skeleton.TextureRegion, error) {
	r, ok := l.Atlas[path]
	if ok {
		return r, nil
	}
	if l.SkipMissing {
		logger().Debug("skip attachment without region", "attachment", name, "path", path)
		return nil, ErrSkip
	}
	return nil, fmt.Errorf("region %q not found in atlas for attachment %q: %w", path, name, ErrUnresolved)
}

func (l *AtlasAttachmentLoader) NewRegionAttachment(_ *skeleton.Skin, name, path string) (*skeleton.RegionAttachment, error) {
	r, err := l.region(name, path)
	if err != nil {
		return nil, err
	}
	a := skeleton.NewRegionAttachment(name)
	a.Region = r
	a.SetUVs(r.U, r.V, r.U2, r.V2, r.Rotated())
	return a, nil
}

func (l *AtlasAttachmentLoader) NewMeshAttachment(_ *skeleton.Skin, name, path string) (*skeleton.MeshAttachment, error) {
	r, err := l.region(name, path)
	if err != nil {
		return nil, err
	}
	m := skeleton.NewMeshAttachment(name)
	m.Region = r
	return m, nil
}
