package referenceframe

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/cinebot/rig/utils"
)

// String renders the topology of the tree, one frame per line, children indented below parents.
func (kt *KinematicTree) String() string {
	children := make(map[frameHandle][]frameHandle, len(kt.frames))
	for h, node := range kt.frames {
		if node.parent != noFrame {
			children[node.parent] = append(children[node.parent], frameHandle(h))
		}
	}

	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)
	var appendFrame func(h frameHandle)
	appendFrame = func(h frameHandle) {
		l.AppendItem(kt.describeFrame(h))
		if len(children[h]) == 0 {
			return
		}
		l.Indent()
		for _, child := range children[h] {
			appendFrame(child)
		}
		l.UnIndent()
	}
	appendFrame(0)
	return l.Render()
}

func (kt *KinematicTree) describeFrame(h frameHandle) string {
	node := kt.frames[h]
	if node.kind == chainLinkFrame {
		return fmt.Sprintf("%s (%s joint %d)", node.name, kt.chains[node.chain].chain.Name(), node.link-1)
	}
	return node.name
}

// PoseTable prints out a table of each frame in the tree, with columns of name, parent, and the
// translation and orientation of the frame in Root under the current joint state.
func (kt *KinematicTree) PoseTable() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Parent", "Translation", "Orientation"})
	for i, node := range kt.frames {
		parent := ""
		if node.parent != noFrame {
			parent = kt.frames[node.parent].name
		}
		pose := kt.poseInAncestor(frameHandle(i), 0)
		tra := pose.Point()
		aa := pose.Orientation().AxisAngles()
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", i),
			kt.describeFrame(frameHandle(i)),
			parent,
			fmt.Sprintf("X:%.4f, Y:%.4f, Z:%.4f", tra.X, tra.Y, tra.Z),
			fmt.Sprintf("TH:%.2f, RX:%.3f, RY:%.3f, RZ:%.3f", utils.RadToDeg(aa.Theta), aa.RX, aa.RY, aa.RZ),
		})
	}
	return t.Render()
}
