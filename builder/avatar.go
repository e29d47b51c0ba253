package builder

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/polyforge/scenekit/scene"
)

// boneSpec is one link of the avatar rig. Offset is local to the parent.
type boneSpec struct {
	id     string
	parent string
	offset mgl32.Vec3
	size   mgl32.Vec3
}

var avatarBones = []boneSpec{
	{id: "pelvis", offset: mgl32.Vec3{0, 1.0, 0}, size: mgl32.Vec3{0.35, 0.2, 0.2}},
	{id: "spine", parent: "pelvis", offset: mgl32.Vec3{0, 0.25, 0}, size: mgl32.Vec3{0.3, 0.3, 0.18}},
	{id: "chest", parent: "spine", offset: mgl32.Vec3{0, 0.3, 0}, size: mgl32.Vec3{0.38, 0.3, 0.2}},
	{id: "neck", parent: "chest", offset: mgl32.Vec3{0, 0.22, 0}, size: mgl32.Vec3{0.1, 0.1, 0.1}},
	{id: "head", parent: "neck", offset: mgl32.Vec3{0, 0.18, 0}, size: mgl32.Vec3{0.22, 0.24, 0.24}},

	{id: "upper_arm_l", parent: "chest", offset: mgl32.Vec3{0.26, 0.1, 0}, size: mgl32.Vec3{0.26, 0.1, 0.1}},
	{id: "forearm_l", parent: "upper_arm_l", offset: mgl32.Vec3{0.27, 0, 0}, size: mgl32.Vec3{0.24, 0.09, 0.09}},
	{id: "hand_l", parent: "forearm_l", offset: mgl32.Vec3{0.2, 0, 0}, size: mgl32.Vec3{0.1, 0.08, 0.08}},

	{id: "upper_arm_r", parent: "chest", offset: mgl32.Vec3{-0.26, 0.1, 0}, size: mgl32.Vec3{0.26, 0.1, 0.1}},
	{id: "forearm_r", parent: "upper_arm_r", offset: mgl32.Vec3{-0.27, 0, 0}, size: mgl32.Vec3{0.24, 0.09, 0.09}},
	{id: "hand_r", parent: "forearm_r", offset: mgl32.Vec3{-0.2, 0, 0}, size: mgl32.Vec3{0.1, 0.08, 0.08}},

	{id: "thigh_l", parent: "pelvis", offset: mgl32.Vec3{0.12, -0.3, 0}, size: mgl32.Vec3{0.14, 0.4, 0.14}},
	{id: "shin_l", parent: "thigh_l", offset: mgl32.Vec3{0, -0.42, 0}, size: mgl32.Vec3{0.12, 0.4, 0.12}},
	{id: "foot_l", parent: "shin_l", offset: mgl32.Vec3{0, -0.25, 0.06}, size: mgl32.Vec3{0.12, 0.08, 0.26}},

	{id: "thigh_r", parent: "pelvis", offset: mgl32.Vec3{-0.12, -0.3, 0}, size: mgl32.Vec3{0.14, 0.4, 0.14}},
	{id: "shin_r", parent: "thigh_r", offset: mgl32.Vec3{0, -0.42, 0}, size: mgl32.Vec3{0.12, 0.4, 0.12}},
	{id: "foot_r", parent: "shin_r", offset: mgl32.Vec3{0, -0.25, 0.06}, size: mgl32.Vec3{0.12, 0.08, 0.26}},
}

// BuildAvatarRig assembles a hierarchical humanoid rig of box bones with
// attachment sockets on the hands and head. The style bag on the pelvis is
// the mutation target of AVATAR_STYLE_FIELD bindings.
func BuildAvatarRig(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, errors.Errorf("avatar needs a name")
	}
	sc := scene.NewScene(uuid.NewString())
	if err := sc.AddMaterial(scene.NewMaterial("skin").WithBaseColor(0.87, 0.72, 0.6, 1)); err != nil {
		return nil, err
	}

	for _, bone := range avatarBones {
		mesh, err := BoxMesh("mesh_"+bone.id, bone.size)
		if err != nil {
			return nil, err
		}
		if err := sc.AddMesh(mesh); err != nil {
			return nil, err
		}

		n := scene.NewNode(bone.id)
		n.MeshID = mesh.ID
		n.MaterialID = "skin"
		n.Transform = scene.TransformAt(bone.offset)
		if err := sc.AddNode(bone.parent, n); err != nil {
			return nil, err
		}
		sc.RecordOp("add_bone", bone.id, map[string]interface{}{"parent": bone.parent})
	}

	root := sc.FindNode("pelvis")
	root.Name = name
	root.SetMeta(scene.MetaStyle, map[string]interface{}{
		"height": float64(1.8),
		"muscle": float64(0.5),
	})

	grip := scene.TransformAt(mgl32.Vec3{0.06, 0, 0})
	sc.FindNode("hand_l").Attachments = []scene.Attachment{{Name: "grip", Transform: grip}}
	gripR := scene.TransformAt(mgl32.Vec3{-0.06, 0, 0})
	sc.FindNode("hand_r").Attachments = []scene.Attachment{{Name: "grip", Transform: gripR}}
	hat := scene.TransformAt(mgl32.Vec3{0, 0.14, 0})
	sc.FindNode("head").Attachments = []scene.Attachment{{Name: "hat", Transform: hat}}

	sc.Camera = CloseUpShot(sc, "head", "camera")
	return sc, nil
}
