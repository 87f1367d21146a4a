package referenceframe

import (
	"github.com/pkg/errors"

	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/spatialmath"
)

// Root is the name of the frame every other frame of a KinematicTree descends from.
const Root = "ROOT"

// InverseKinematics solves for the joint inputs of a chain that place its terminal link at target.
// The target is expressed in the base frame of the chain, and seed is the current joint state.
type InverseKinematics interface {
	Solve(chain *Chain, target spatialmath.Pose, seed []Input) ([]Input, error)
}

type (
	frameHandle int
	chainHandle int
	frameKind   int
)

const noFrame frameHandle = -1

const (
	// fixedFrame frames have a constant pose relative to their parent.
	fixedFrame frameKind = iota
	// chainLinkFrame frames take their pose from the joint state of a chain.
	chainLinkFrame
)

type frameNode struct {
	name   string
	parent frameHandle
	kind   frameKind

	pose spatialmath.Pose // fixedFrame only

	chain chainHandle // chainLinkFrame only
	link  int
}

type chainRecord struct {
	chain *Chain
	base  frameHandle
	state []Input
}

// KinematicTree is a rooted tree of named frames. Frames either hold a fixed pose relative to their
// parent or are links of a chain whose poses follow the chain's joint state. The tree owns the joint
// state of every chain it holds. A KinematicTree is not safe for concurrent use.
type KinematicTree struct {
	logger logging.Logger
	ik     InverseKinematics

	frames   []frameNode
	frameIdx map[string]frameHandle
	chains   []chainRecord
	chainIdx map[string]chainHandle
}

// NewKinematicTree returns a tree holding only the Root frame. ik may be nil, in which case
// SetTransform fails until SetInverseKinematics is called.
func NewKinematicTree(logger logging.Logger, ik InverseKinematics) *KinematicTree {
	kt := &KinematicTree{
		logger:   logger,
		ik:       ik,
		frameIdx: map[string]frameHandle{},
		chainIdx: map[string]chainHandle{},
	}
	kt.insertFrame(frameNode{name: Root, parent: noFrame, kind: fixedFrame, pose: spatialmath.NewZeroPose()})
	return kt
}

// SetInverseKinematics replaces the solver used by SetTransform.
func (kt *KinematicTree) SetInverseKinematics(ik InverseKinematics) {
	kt.ik = ik
}

func (kt *KinematicTree) insertFrame(node frameNode) frameHandle {
	h := frameHandle(len(kt.frames))
	kt.frames = append(kt.frames, node)
	kt.frameIdx[node.name] = h
	return h
}

func (kt *KinematicTree) checkName(name, parent string) (frameHandle, error) {
	if _, ok := kt.frameIdx[name]; ok {
		return noFrame, NewDuplicateFrameError(name)
	}
	parentH, ok := kt.frameIdx[parent]
	if !ok {
		return noFrame, NewParentFrameMissingError(name, parent)
	}
	return parentH, nil
}

// AddFrame attaches a frame with a fixed pose relative to parent. A nil pose is the identity.
func (kt *KinematicTree) AddFrame(parent, child string, pose spatialmath.Pose) error {
	parentH, err := kt.checkName(child, parent)
	if err != nil {
		return err
	}
	if pose == nil {
		pose = spatialmath.NewZeroPose()
	}
	kt.insertFrame(frameNode{name: child, parent: parentH, kind: fixedFrame, pose: pose})
	return nil
}

// AddFrameRelative attaches a fixed frame under parent whose pose is given relative to the existing
// frame reference. The pose is resolved against the current joint state and then stays fixed.
func (kt *KinematicTree) AddFrameRelative(parent, child, reference string, poseInReference spatialmath.Pose) error {
	if _, err := kt.checkName(child, parent); err != nil {
		return err
	}
	referenceInParent, err := kt.Transform(reference, parent)
	if err != nil {
		return err
	}
	if poseInReference == nil {
		poseInReference = spatialmath.NewZeroPose()
	}
	return kt.AddFrame(parent, child, spatialmath.Compose(referenceInParent, poseInReference))
}

// SetFramePose replaces the pose of a fixed frame relative to its parent. Root and chain links
// cannot be re-posed. A nil pose is the identity.
func (kt *KinematicTree) SetFramePose(name string, pose spatialmath.Pose) error {
	h, ok := kt.frameIdx[name]
	if !ok {
		return NewFrameMissingError(name)
	}
	node := &kt.frames[h]
	if node.parent == noFrame || node.kind != fixedFrame {
		return errors.Wrapf(ErrNotFixedFrame, "frame %q", name)
	}
	if pose == nil {
		pose = spatialmath.NewZeroPose()
	}
	node.pose = pose
	return nil
}

// AddChain attaches chain under parent. The base link of the chain becomes a frame at the identity
// pose under parent and every subsequent link becomes a frame under the previous link. All joints
// start at zero. The tree is unchanged on error.
func (kt *KinematicTree) AddChain(parent string, chain *Chain) error {
	if chain == nil {
		return errors.New("chain cannot be nil")
	}
	if _, ok := kt.chainIdx[chain.Name()]; ok {
		return errors.Wrapf(ErrDuplicateChain, "chain %q", chain.Name())
	}
	parentH, ok := kt.frameIdx[parent]
	if !ok {
		return NewParentFrameMissingError(chain.Name(), parent)
	}
	for _, link := range chain.links {
		if _, ok := kt.frameIdx[link.Name]; ok {
			return NewDuplicateFrameError(link.Name)
		}
	}

	ch := chainHandle(len(kt.chains))
	base := kt.insertFrame(frameNode{
		name:   chain.links[0].Name,
		parent: parentH,
		kind:   fixedFrame,
		pose:   spatialmath.NewZeroPose(),
	})
	prev := base
	for i := 1; i < len(chain.links); i++ {
		prev = kt.insertFrame(frameNode{
			name:   chain.links[i].Name,
			parent: prev,
			kind:   chainLinkFrame,
			chain:  ch,
			link:   i,
		})
	}
	kt.chains = append(kt.chains, chainRecord{
		chain: chain,
		base:  base,
		state: make([]Input, chain.NumLinks()-1),
	})
	kt.chainIdx[chain.Name()] = ch
	kt.logger.Debugw("added chain", "chain", chain.Name(), "parent", parent, "links", chain.NumLinks())
	return nil
}

func (kt *KinematicTree) chainRecord(chainName string) (*chainRecord, error) {
	ch, ok := kt.chainIdx[chainName]
	if !ok {
		return nil, NewChainMissingError(chainName)
	}
	return &kt.chains[ch], nil
}

// SetChainState overwrites the joint state of the named chain.
func (kt *KinematicTree) SetChainState(chainName string, inputs []Input) error {
	rec, err := kt.chainRecord(chainName)
	if err != nil {
		return err
	}
	if len(inputs) != len(rec.state) {
		return NewIncorrectDoFError(len(inputs), len(rec.state))
	}
	copy(rec.state, inputs)
	return nil
}

// ChainState returns a copy of the joint state of the named chain.
func (kt *KinematicTree) ChainState(chainName string) ([]Input, error) {
	rec, err := kt.chainRecord(chainName)
	if err != nil {
		return nil, err
	}
	return copyInputs(rec.state), nil
}

// Chain returns the named chain.
func (kt *KinematicTree) Chain(chainName string) (*Chain, error) {
	rec, err := kt.chainRecord(chainName)
	if err != nil {
		return nil, err
	}
	return rec.chain, nil
}

// ChainNames returns the names of all chains in the order they were added.
func (kt *KinematicTree) ChainNames() []string {
	names := make([]string, 0, len(kt.chains))
	for _, rec := range kt.chains {
		names = append(names, rec.chain.Name())
	}
	return names
}

// FrameNames returns the names of all frames, Root first, in the order they were added.
func (kt *KinematicTree) FrameNames() []string {
	names := make([]string, 0, len(kt.frames))
	for _, node := range kt.frames {
		names = append(names, node.name)
	}
	return names
}

// Parent returns the name of the parent of the given frame. Root has no parent and returns "".
func (kt *KinematicTree) Parent(name string) (string, error) {
	h, ok := kt.frameIdx[name]
	if !ok {
		return "", NewFrameMissingError(name)
	}
	if p := kt.frames[h].parent; p != noFrame {
		return kt.frames[p].name, nil
	}
	return "", nil
}

// localTransform is the pose of a frame relative to its parent under the current joint state.
func (kt *KinematicTree) localTransform(h frameHandle) spatialmath.Pose {
	node := &kt.frames[h]
	if node.kind == fixedFrame {
		return node.pose
	}
	rec := &kt.chains[node.chain]
	return rec.chain.localTransform(node.link, rec.state)
}

// traceback returns the handles from h up to and including Root.
func (kt *KinematicTree) traceback(h frameHandle) []frameHandle {
	var trace []frameHandle
	for ; h != noFrame; h = kt.frames[h].parent {
		trace = append(trace, h)
	}
	return trace
}

// poseInAncestor composes local transforms from h up to ancestor, adding new transforms to the left.
func (kt *KinematicTree) poseInAncestor(h, ancestor frameHandle) spatialmath.Pose {
	q := spatialmath.NewZeroPose()
	for ; h != ancestor; h = kt.frames[h].parent {
		q = spatialmath.Compose(kt.localTransform(h), q)
	}
	return q
}

// Transform returns the pose of frame from expressed in frame to.
func (kt *KinematicTree) Transform(from, to string) (spatialmath.Pose, error) {
	fromH, ok := kt.frameIdx[from]
	if !ok {
		return nil, NewFrameMissingError(from)
	}
	toH, ok := kt.frameIdx[to]
	if !ok {
		return nil, NewFrameMissingError(to)
	}
	if fromH == toH {
		return spatialmath.NewZeroPose(), nil
	}

	toAncestors := make(map[frameHandle]struct{})
	for _, h := range kt.traceback(toH) {
		toAncestors[h] = struct{}{}
	}
	lca := frameHandle(0)
	for _, h := range kt.traceback(fromH) {
		if _, ok := toAncestors[h]; ok {
			lca = h
			break
		}
	}

	fromInLCA := kt.poseInAncestor(fromH, lca)
	toInLCA := kt.poseInAncestor(toH, lca)
	return spatialmath.Compose(spatialmath.PoseInverse(toInLCA), fromInLCA), nil
}

// SetTransform solves the joints of the chain driving frame so that frame reaches target, expressed
// in Root. The frame must be the terminal link of a chain or hang below it through fixed frames
// only. On error the joint state is unchanged.
func (kt *KinematicTree) SetTransform(frame string, target spatialmath.Pose) error {
	h, ok := kt.frameIdx[frame]
	if !ok {
		return NewFrameMissingError(frame)
	}

	// fixed offset of frame relative to the first chain link above it
	offset := spatialmath.NewZeroPose()
	for kt.frames[h].kind != chainLinkFrame {
		node := kt.frames[h]
		if node.parent == noFrame {
			return errors.Wrapf(ErrNoChainFound, "frame %q", frame)
		}
		offset = spatialmath.Compose(node.pose, offset)
		h = node.parent
	}
	node := kt.frames[h]
	rec := &kt.chains[node.chain]
	if node.link != rec.chain.NumLinks()-1 {
		return errors.Wrapf(ErrNoChainFound,
			"frame %q hangs from link %q which is not the last link of chain %q", frame, node.name, rec.chain.Name())
	}
	if kt.ik == nil {
		return errors.Errorf("no inverse kinematics solver for chain %q", rec.chain.Name())
	}

	baseInRoot := kt.poseInAncestor(rec.base, 0)
	ikTarget := spatialmath.Compose(
		spatialmath.Compose(spatialmath.PoseInverse(baseInRoot), target),
		spatialmath.PoseInverse(offset),
	)
	solution, err := kt.ik.Solve(rec.chain, ikTarget, copyInputs(rec.state))
	if err != nil {
		return errors.Wrapf(err, "cannot move frame %q to %s", frame, spatialmath.PoseToString(target))
	}
	if len(solution) != len(rec.state) {
		return NewIncorrectDoFError(len(solution), len(rec.state))
	}
	copy(rec.state, solution)
	kt.logger.Debugw("solved chain", "chain", rec.chain.Name(), "frame", frame, "inputs", InputsToFloats(solution))
	return nil
}
