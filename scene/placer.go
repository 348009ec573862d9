package scene

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/soypat/antiwarp"
	"github.com/soypat/antiwarp/config"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Action is the outcome of a Pick.
type Action int

const (
	// Ignored picks landed on an object that does not take tabs.
	Ignored Action = iota
	// Added picks placed a new tab.
	Added
	// Removed picks landed on a placed tab's pad and removed it.
	Removed
)

func (a Action) String() string {
	switch a {
	case Ignored:
		return "ignored"
	case Added:
		return "added"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Placer runs manual and automatic tab placement against a scene.
type Placer struct {
	Scene    Scene
	Process  Process
	Settings config.Settings
	// Logger receives warnings about tabs that could not be oriented or built.
	// log.Default is used when nil.
	Logger *log.Logger
	// Session holds the tabs this placer added.
	Session Session
}

func (p *Placer) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}

// Pick handles a click at world position at on object id. A click on the pad
// of any tab in the scene removes that tab. Otherwise a tab is
// added to the object unless its roles exclude tabs.
func (p *Placer) Pick(id antiwarp.ObjectID, at r3.Vec) (Action, Node, error) {
	if n, ok := p.padAt(at); ok {
		if err := p.Scene.Remove(n.ID); err != nil {
			return Ignored, Node{}, err
		}
		p.Session.Drop(n.ID)
		p.logger().Debug("removed tab", "object", n.Parent, "id", n.ID)
		return Removed, n, nil
	}
	roles, err := p.Process.Roles(id)
	if err != nil {
		return Ignored, Node{}, err
	}
	if !roles.Pickable() || roles.Tab {
		p.logger().Debug("object does not take tabs", "object", id, "roles", roles)
		return Ignored, Node{}, nil
	}
	n, err := p.build(antiwarp.PlacementRequest{Anchor: at, Object: id})
	if err != nil {
		return Ignored, Node{}, err
	}
	if err := p.Scene.Insert(n); err != nil {
		return Ignored, Node{}, err
	}
	p.Session.Add(n)
	return Added, n, nil
}

// padAt returns the scene tab whose pad contains at.
func (p *Placer) padAt(at r3.Vec) (Node, bool) {
	n, d, ok := nearestNode(p.Scene.Tabs(), r2.Vec{X: at.X, Y: at.Y})
	if !ok || d > n.Spec.PadDiameter/2 || at.Z > n.Spec.CapHeight {
		return Node{}, false
	}
	return n, true
}

// Auto places tabs along the outlines of the given objects, or of every
// object in the scene when none are given. Objects whose roles exclude tabs
// are skipped. Tabs that fail to build are logged and skipped. The remaining
// tabs are inserted into the scene as a single batch.
func (p *Placer) Auto(ids ...antiwarp.ObjectID) ([]Node, error) {
	if len(ids) == 0 {
		ids = p.Scene.Objects()
	}
	var candidates []antiwarp.Candidate
	for _, id := range ids {
		roles, err := p.Process.Roles(id)
		if err != nil {
			return nil, err
		}
		if !roles.Eligible() {
			p.logger().Debug("skipping object", "object", id, "roles", roles)
			continue
		}
		hull, err := p.Scene.Hull(id)
		if err != nil || len(hull) == 0 {
			p.logger().Warn("object has no convex hull", "object", id, "err", err)
			continue
		}
		candidates = append(candidates, antiwarp.Candidate{Object: id, Footprint: hull})
	}
	reqs := antiwarp.Plan(candidates, p.Settings.Spacing())
	nodes := make([]Node, 0, len(reqs))
	for _, req := range reqs {
		n, err := p.build(req)
		if err != nil {
			p.logger().Warn("skipping tab", "object", req.Object, "at", req.Anchor, "err", err)
			continue
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	if err := p.Scene.Insert(nodes...); err != nil {
		return nil, err
	}
	p.Session.Add(nodes...)
	p.logger().Info("placed tabs", "count", len(nodes), "objects", len(candidates))
	return nodes, nil
}

// RemoveLast removes the most recently placed tab. It returns false if the
// session is empty.
func (p *Placer) RemoveLast() (bool, error) {
	n, ok := p.Session.Last()
	if !ok {
		return false, nil
	}
	if err := p.Scene.Remove(n.ID); err != nil {
		return false, err
	}
	p.Session.Drop(n.ID)
	return true, nil
}

// RemoveAll removes every tab placed in this session and returns how many
// were removed. When the session is empty every tab in the scene is removed
// instead, so tabs left by an earlier session can still be cleared.
func (p *Placer) RemoveAll() (int, error) {
	nodes := p.Session.Nodes()
	if len(nodes) == 0 {
		nodes = p.Scene.Tabs()
	}
	ids := make([]uuid.UUID, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := p.Scene.Remove(ids...); err != nil {
		return 0, err
	}
	p.Session.Clear()
	return len(ids), nil
}

func (p *Placer) build(req antiwarp.PlacementRequest) (Node, error) {
	layers, err := p.Process.Layers(req.Object)
	if err != nil {
		return Node{}, err
	}
	area, err := p.Scene.AdhesionArea(req.Object)
	if err != nil && !errors.Is(err, ErrUnknownObject) {
		p.logger().Warn("no adhesion area", "object", req.Object, "err", err)
		area = nil
	} else if err != nil {
		return Node{}, err
	}
	res, err := antiwarp.Place(req, area, p.Settings.TabSpec(layers))
	if err != nil {
		return Node{}, err
	}
	if res.AngleErr != nil {
		p.logger().Warn("tab not oriented", "object", req.Object, "at", req.Anchor, "err", res.AngleErr)
	}
	return Node{
		ID:              uuid.New(),
		Parent:          req.Object,
		PlacementResult: res,
		SpeedOverride:   p.Settings.InitialLayerSpeed,
	}, nil
}
