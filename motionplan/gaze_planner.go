package motionplan

import (
	"context"
	"encoding/json"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/cinebot/rig/components/arm"
	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/motionplan/ik"
	"github.com/cinebot/rig/motionplan/spline"
	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/spatialmath"
)

// minGazePathPoints is the number of gaze points above which the gaze point moves along a path of its
// own. With fewer, the camera keeps looking at the first gaze point.
const minGazePathPoints = 3

// GazePlanner plans in camera space. Camera positions are recorded by posing the arm by hand, and
// the camera is kept pointed at the gaze points while it moves between them. Every interpolated
// camera pose is solved back to joints through the kinematic tree.
type GazePlanner struct {
	logger   logging.Logger
	arm      arm.Arm
	tree     *referenceframe.KinematicTree
	chain    string
	camera   string
	duration float64
	fps      float64
	opts     []spline.Option

	configs      [][]referenceframe.Input
	cameraPoints []r3.Vector
	gazePoints   []r3.Vector
	cache        *Plan
	dirty        bool
}

// NewGazePlanner returns a planner for the chain driven by a, moving the camera frame of tree for
// duration seconds at fps frames per second. The spline options apply to both the camera and the
// gaze paths.
func NewGazePlanner(
	a arm.Arm,
	tree *referenceframe.KinematicTree,
	chain, camera string,
	duration, fps float64,
	logger logging.Logger,
	opts ...spline.Option,
) (*GazePlanner, error) {
	if _, err := tree.Chain(chain); err != nil {
		return nil, err
	}
	if _, err := tree.Transform(camera, referenceframe.Root); err != nil {
		return nil, errors.Wrap(err, "cannot locate camera")
	}
	if int(duration*fps) <= 0 {
		return nil, errors.Errorf("%f seconds at %f fps is no frames", duration, fps)
	}
	return &GazePlanner{
		logger:   logger,
		arm:      a,
		tree:     tree,
		chain:    chain,
		camera:   camera,
		duration: duration,
		fps:      fps,
		opts:     opts,
		dirty:    true,
	}, nil
}

func (gp *GazePlanner) currentCameraPoint(joints []referenceframe.Input) (r3.Vector, error) {
	if err := gp.tree.SetChainState(gp.chain, joints); err != nil {
		return r3.Vector{}, err
	}
	pose, err := gp.tree.Transform(gp.camera, referenceframe.Root)
	if err != nil {
		return r3.Vector{}, err
	}
	return pose.Point(), nil
}

// RecordCameraPose reads the arm's joints and stores them with the camera position they put the
// camera at.
func (gp *GazePlanner) RecordCameraPose(ctx context.Context) error {
	joints, err := gp.arm.JointPositions(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot read joint positions")
	}
	point, err := gp.currentCameraPoint(joints)
	if err != nil {
		return err
	}
	gp.configs = append(gp.configs, joints)
	gp.cameraPoints = append(gp.cameraPoints, point)
	gp.dirty = true
	gp.logger.Debugw("recorded camera pose", "index", len(gp.cameraPoints)-1,
		"joints", referenceframe.InputsToFloats(joints), "camera", point)
	return nil
}

// AddGazePoint appends a gaze point. A nil point means the camera's current position, so the arm can
// be used as a pointer.
func (gp *GazePlanner) AddGazePoint(ctx context.Context, point *r3.Vector) error {
	if point == nil {
		joints, err := gp.arm.JointPositions(ctx)
		if err != nil {
			return errors.Wrap(err, "cannot read joint positions")
		}
		current, err := gp.currentCameraPoint(joints)
		if err != nil {
			return err
		}
		point = &current
	}
	gp.gazePoints = append(gp.gazePoints, *point)
	gp.dirty = true
	gp.logger.Debugw("added gaze point", "index", len(gp.gazePoints)-1, "point", *point)
	return nil
}

// CameraPoints returns the recorded camera positions.
func (gp *GazePlanner) CameraPoints() []r3.Vector {
	return append([]r3.Vector(nil), gp.cameraPoints...)
}

// GazePoints returns the gaze points.
func (gp *GazePlanner) GazePoints() []r3.Vector {
	return append([]r3.Vector(nil), gp.gazePoints...)
}

func vectorsToPath(vs []r3.Vector) [][]float64 {
	return lo.Map(vs, func(v r3.Vector, _ int) []float64 { return []float64{v.X, v.Y, v.Z} })
}

// CameraPoses returns the interpolated camera poses, one per frame, before they are solved to joints.
func (gp *GazePlanner) CameraPoses() ([]spatialmath.Pose, error) {
	if len(gp.gazePoints) == 0 {
		return nil, errors.New("no gaze points")
	}
	gaze := spline.FixedGaze(gp.gazePoints[0])
	if len(gp.gazePoints) > minGazePathPoints {
		gaze = spline.GazePath(vectorsToPath(gp.gazePoints))
	}
	s, err := spline.NewGazeOrientationSpline(vectorsToPath(gp.cameraPoints), gaze, gp.opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot interpolate %d camera points", len(gp.cameraPoints))
	}
	return s.EvenlySpaced(int(gp.fps * gp.duration))
}

// Plan solves the interpolated camera poses to joints, starting from the first recorded
// configuration. Camera poses the arm cannot reach are logged and left out of the plan. The result
// is cached until another camera pose or gaze point is added.
func (gp *GazePlanner) Plan() (*Plan, error) {
	if !gp.dirty && gp.cache != nil {
		return gp.cache, nil
	}
	if len(gp.configs) == 0 {
		return nil, errors.New("no recorded camera poses")
	}
	poses, err := gp.CameraPoses()
	if err != nil {
		return nil, err
	}
	if err := gp.tree.SetChainState(gp.chain, gp.configs[0]); err != nil {
		return nil, err
	}
	plan := &Plan{Chain: gp.chain, FPS: gp.fps}
	for i, pose := range poses {
		if err := gp.tree.SetTransform(gp.camera, pose); err != nil {
			if errors.Is(err, ik.ErrUnreachable) {
				previous, _ := gp.tree.ChainState(gp.chain)
				gp.logger.Warnw("skipping unreachable camera pose", "frame", i,
					"pose", spatialmath.PoseToString(pose), "previous", referenceframe.InputsToFloats(previous), "error", err)
				continue
			}
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		joints, err := gp.tree.ChainState(gp.chain)
		if err != nil {
			return nil, err
		}
		plan.Trajectory = append(plan.Trajectory, joints)
		plan.CameraPoses = append(plan.CameraPoses, pose)
	}
	gp.logger.Infow("planned camera path", "chain", gp.chain, "frames", plan.Len(), "skipped", len(poses)-plan.Len())
	gp.cache = plan
	gp.dirty = false
	return plan, nil
}

type gazePlannerJSON struct {
	Configurations [][]float64                     `json:"configurations"`
	CameraPoints   []*spatialmath.TranslationConfig `json:"camera_points"`
	GazePoints     []*spatialmath.TranslationConfig `json:"gaze_points"`
	Plan           *planJSON                        `json:"plan,omitempty"`
}

// Save writes the recorded configurations, camera points, gaze points and cached plan to path.
func (gp *GazePlanner) Save(path string) error {
	toConfigs := func(vs []r3.Vector) []*spatialmath.TranslationConfig {
		return lo.Map(vs, func(v r3.Vector, _ int) *spatialmath.TranslationConfig { return spatialmath.NewTranslationConfig(v) })
	}
	out := gazePlannerJSON{
		Configurations: lo.Map(gp.configs, func(c []referenceframe.Input, _ int) []float64 { return referenceframe.InputsToFloats(c) }),
		CameraPoints:   toConfigs(gp.cameraPoints),
		GazePoints:     toConfigs(gp.gazePoints),
	}
	if gp.cache != nil && !gp.dirty {
		out.Plan = gp.cache.toJSON()
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot encode gaze planner")
	}
	//nolint:gosec
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "cannot write %q", path)
}

// Load replaces the planner's recordings with those saved at path.
func (gp *GazePlanner) Load(path string) error {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "cannot read %q", path)
	}
	var in gazePlannerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrapf(err, "cannot decode %q", path)
	}
	if len(in.Configurations) != len(in.CameraPoints) {
		return errors.Wrapf(referenceframe.ErrDimensionMismatch,
			"%d configurations for %d camera points", len(in.Configurations), len(in.CameraPoints))
	}
	var cache *Plan
	if in.Plan != nil {
		if cache, err = planFromJSON(in.Plan); err != nil {
			return err
		}
	}
	fromConfigs := func(cfgs []*spatialmath.TranslationConfig) []r3.Vector {
		return lo.Map(cfgs, func(cfg *spatialmath.TranslationConfig, _ int) r3.Vector { return cfg.ParseConfig() })
	}
	gp.configs = lo.Map(in.Configurations, func(c []float64, _ int) []referenceframe.Input { return referenceframe.FloatsToInputs(c) })
	gp.cameraPoints = fromConfigs(in.CameraPoints)
	gp.gazePoints = fromConfigs(in.GazePoints)
	gp.cache = cache
	gp.dirty = cache == nil
	return nil
}
