package motionplan

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/motionplan/ik"
	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/spatialmath"
)

const (
	// RealRoot is the frame the rig, the subject and the screens are placed in. It hangs from
	// referenceframe.Root, which serves as the virtual scene the subject is moved through.
	RealRoot = "real_root"
	// Subject is the name of the subject frame of a LightBoxPlanner.
	Subject = "subject"
	// screenCameraSuffix names the camera frame derived for every screen.
	screenCameraSuffix = "_camera"
)

// ErrNoSubject is returned when a screen is added before the subject is placed.
var ErrNoSubject = errors.New("subject not set")

// Screen is a display surrounding the subject. Its camera renders what a viewer at the subject's
// depth would see through the screen: it sits on the screen's y axis level with the subject, looks
// back at the screen origin and keeps the screen's z axis as its up direction.
type Screen struct {
	Name        string
	PixelWidth  int
	PixelHeight int
	// Width and Height are the physical size of the screen in meters.
	Width  float64
	Height float64
	// Pose is the screen in RealRoot.
	Pose spatialmath.Pose
	// CameraPose is the derived camera in RealRoot.
	CameraPose spatialmath.Pose
	// FocalLength is the distance from the screen to the subject along the screen's y axis.
	FocalLength float64
}

// CameraFrame returns the name of the screen's camera frame.
func (s *Screen) CameraFrame() string {
	return s.Name + screenCameraSuffix
}

// LightBoxAnimation holds the Root pose of every frame of a light box at every animation step.
type LightBoxAnimation struct {
	Frames []string
	Poses  map[string][]spatialmath.Pose
}

// Len returns the number of animation steps.
func (a *LightBoxAnimation) Len() int {
	if len(a.Frames) == 0 {
		return 0
	}
	return len(a.Poses[a.Frames[0]])
}

// LightBoxPlanner places a subject and the screens around it next to a camera rig, and moves the
// whole real scene so the subject follows a virtual path while the arm plays back its joints.
type LightBoxPlanner struct {
	logger  logging.Logger
	tree    *referenceframe.KinematicTree
	chain   string
	screens []*Screen
}

// NewLightBoxPlanner builds a tree holding RealRoot under Root, chain under RealRoot and a camera
// frame at cameraOffset from the chain's last link.
func NewLightBoxPlanner(
	chain *referenceframe.Chain,
	camera string,
	cameraOffset spatialmath.Pose,
	logger logging.Logger,
) (*LightBoxPlanner, error) {
	tree := referenceframe.NewKinematicTree(logger, ik.NewSixAxisSolver(logger))
	if err := tree.AddFrame(referenceframe.Root, RealRoot, nil); err != nil {
		return nil, err
	}
	if err := tree.AddChain(RealRoot, chain); err != nil {
		return nil, err
	}
	tip := chain.Link(chain.NumLinks() - 1).Name
	if err := tree.AddFrame(tip, camera, cameraOffset); err != nil {
		return nil, err
	}
	return &LightBoxPlanner{logger: logger, tree: tree, chain: chain.Name()}, nil
}

// Tree returns the planner's kinematic tree.
func (lp *LightBoxPlanner) Tree() *referenceframe.KinematicTree {
	return lp.tree
}

// PlaceSubject puts the subject at pose in RealRoot, moving it if it is already placed.
func (lp *LightBoxPlanner) PlaceSubject(pose spatialmath.Pose) error {
	if _, err := lp.tree.Parent(Subject); err == nil {
		return lp.tree.SetFramePose(Subject, pose)
	}
	return lp.tree.AddFrame(RealRoot, Subject, pose)
}

// AddScreen adds a screen frame at pose in RealRoot together with its camera frame. The subject
// must be placed first and must not lie in the plane of the screen.
func (lp *LightBoxPlanner) AddScreen(name string, pixelWidth, pixelHeight int, width, height float64, pose spatialmath.Pose) (*Screen, error) {
	subject, err := lp.tree.Transform(Subject, RealRoot)
	if err != nil {
		return nil, errors.Wrapf(ErrNoSubject, "cannot add screen %q", name)
	}
	if pose == nil {
		pose = spatialmath.NewZeroPose()
	}

	rm := pose.Orientation().RotationMatrix()
	origin := pose.Point()
	normal := rm.Col(1)
	depth := subject.Point().Sub(origin).Dot(normal)
	eye := origin.Add(normal.Mul(depth))
	cameraPose, err := spatialmath.NewLookAtPose(eye, origin, rm.Col(2))
	if err != nil {
		return nil, errors.Wrapf(err, "subject lies in the plane of screen %q", name)
	}

	screen := &Screen{
		Name:        name,
		PixelWidth:  pixelWidth,
		PixelHeight: pixelHeight,
		Width:       width,
		Height:      height,
		Pose:        pose,
		CameraPose:  cameraPose,
		FocalLength: depth,
	}
	if err := lp.tree.AddFrame(RealRoot, name, pose); err != nil {
		return nil, err
	}
	if err := lp.tree.AddFrame(RealRoot, screen.CameraFrame(), cameraPose); err != nil {
		return nil, err
	}
	lp.screens = append(lp.screens, screen)
	lp.logger.Debugw("added screen", "screen", name, "focal_length", depth, "camera", eye)
	return screen, nil
}

// Screens returns the screens in the order they were added.
func (lp *LightBoxPlanner) Screens() []*Screen {
	return append([]*Screen(nil), lp.screens...)
}

// SetSubjectVirtualPose re-poses RealRoot under Root so that the subject lands at virtual.
func (lp *LightBoxPlanner) SetSubjectVirtualPose(virtual spatialmath.Pose) error {
	subject, err := lp.tree.Transform(Subject, RealRoot)
	if err != nil {
		return errors.Wrap(ErrNoSubject, "cannot move subject")
	}
	return lp.tree.SetFramePose(RealRoot, spatialmath.Compose(virtual, spatialmath.PoseInverse(subject)))
}

// Animate steps the subject through subjectPoses and the arm through configs together, recording the
// Root pose of every frame at every step. A single subject pose holds for every config; otherwise the
// shorter of the two sequences sets the length. The tree is left at the last step.
func (lp *LightBoxPlanner) Animate(subjectPoses []spatialmath.Pose, configs [][]referenceframe.Input) (*LightBoxAnimation, error) {
	if len(subjectPoses) == 1 && len(configs) > 1 {
		held := subjectPoses[0]
		subjectPoses = lo.RepeatBy(len(configs), func(int) spatialmath.Pose { return held })
	}
	steps := min(len(subjectPoses), len(configs))
	if steps == 0 {
		return nil, errors.New("nothing to animate")
	}

	anim := &LightBoxAnimation{Frames: lp.tree.FrameNames(), Poses: map[string][]spatialmath.Pose{}}
	for i := 0; i < steps; i++ {
		if err := lp.SetSubjectVirtualPose(subjectPoses[i]); err != nil {
			return nil, err
		}
		if err := lp.tree.SetChainState(lp.chain, configs[i]); err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		for _, name := range anim.Frames {
			pose, err := lp.tree.Transform(name, referenceframe.Root)
			if err != nil {
				return nil, err
			}
			anim.Poses[name] = append(anim.Poses[name], pose)
		}
	}
	lp.logger.Debugw("animated light box", "steps", steps, "frames", len(anim.Frames))
	return anim, nil
}
