package scene

import (
	"material-scene/core"
)

// Scene is the scene graph root plus the state shared by every object in it:
// lights, ambient term, background and environment map.
type Scene struct {
	Root   *Node
	Lights []*Light

	Ambient         core.Color
	BackgroundColor core.Color

	// Background is drawn behind all geometry when set.
	Background *CubeTexture
	// Environment is the default reflection/refraction map for materials
	// that do not carry their own EnvMap.
	Environment *CubeTexture
}

func NewScene() *Scene {
	return &Scene{
		Root:            NewNode("Root"),
		Ambient:         core.Color{R: 0, G: 0, B: 0, A: 1},
		BackgroundColor: core.ColorBlack,
	}
}

// Add attaches nodes directly under the root.
func (s *Scene) Add(nodes ...*Node) {
	for _, n := range nodes {
		s.Root.AddChild(n)
	}
}

func (s *Scene) Remove(node *Node) {
	s.Root.RemoveChild(node)
}

func (s *Scene) AddLight(lights ...*Light) {
	s.Lights = append(s.Lights, lights...)
}

func (s *Scene) RemoveLight(light *Light) {
	for i, l := range s.Lights {
		if l == light {
			s.Lights = append(s.Lights[:i], s.Lights[i+1:]...)
			return
		}
	}
}

// VisibleNodes returns every node with a mesh whose whole ancestor chain
// is visible.
func (s *Scene) VisibleNodes() []*Node {
	var visible []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible {
			return
		}
		if n.Mesh != nil {
			visible = append(visible, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return visible
}

// VisibleLights returns the lights that currently contribute.
func (s *Scene) VisibleLights() []*Light {
	var out []*Light
	for _, l := range s.Lights {
		if l != nil && l.Visible {
			out = append(out, l)
		}
	}
	return out
}
