package viewport

import (
	"errors"
	"fmt"

	"material-scene/scene"
)

// ErrInvalidShadowTarget is returned for a ShadowTarget that names nothing.
var ErrInvalidShadowTarget = errors.New("viewport: invalid shadow target")

// ShadowMapType selects the backend's shadow filtering.
type ShadowMapType int

const (
	ShadowMapBasic ShadowMapType = iota
	ShadowMapPCF
	ShadowMapPCFSoft
)

func (t ShadowMapType) String() string {
	switch t {
	case ShadowMapPCF:
		return "pcf"
	case ShadowMapPCFSoft:
		return "pcf-soft"
	}
	return "basic"
}

// ShadowBias is applied to every light passed to EnableShadows.
const ShadowBias = 0.0001

type shadowKind int

const (
	shadowNone shadowKind = iota
	shadowViewport
	shadowLight
	shadowNode
)

// ShadowTarget is one argument to EnableShadows: a viewport, a light or a
// node. Build it with ShadowsFor, ShadowsForLight or ShadowsForNode.
type ShadowTarget struct {
	kind     shadowKind
	viewport *Viewport
	light    *scene.Light
	node     *scene.Node
}

func ShadowsFor(v *Viewport) ShadowTarget {
	return ShadowTarget{kind: shadowViewport, viewport: v}
}

func ShadowsForLight(l *scene.Light) ShadowTarget {
	return ShadowTarget{kind: shadowLight, light: l}
}

func ShadowsForNode(n *scene.Node) ShadowTarget {
	return ShadowTarget{kind: shadowNode, node: n}
}

// EnableShadows turns shadows on for every target: the viewport gets a
// soft PCF shadow map, lights cast with ShadowBias, nodes cast and receive.
// Targets before an invalid one are still applied.
func EnableShadows(targets ...ShadowTarget) error {
	for i, t := range targets {
		switch {
		case t.kind == shadowViewport && t.viewport != nil:
			t.viewport.shadows = true
			t.viewport.shadowType = ShadowMapPCFSoft
			t.viewport.backend.SetShadowMap(true, ShadowMapPCFSoft)
		case t.kind == shadowLight && t.light != nil:
			t.light.CastShadow = true
			if t.light.Shadow != nil {
				t.light.Shadow.Bias = ShadowBias
			}
		case t.kind == shadowNode && t.node != nil:
			t.node.CastShadow = true
			t.node.ReceiveShadow = true
		default:
			return fmt.Errorf("target %d: %w", i, ErrInvalidShadowTarget)
		}
	}
	return nil
}

// ShadowMap reports whether shadow mapping is on and its filtering.
func (v *Viewport) ShadowMap() (bool, ShadowMapType) {
	return v.shadows, v.shadowType
}
