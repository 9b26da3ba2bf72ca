package workflow

// Connection is a link gesture from one node anchor to another.
type Connection struct {
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Link turns a connection into an animated edge. Nothing is validated: the
// endpoints need not exist, and loops and parallel edges are accepted.
func Link(ids *IDGenerator, c Connection) Edge {
	return c.edge(ids.EdgeID())
}

func (c Connection) edge(id string) Edge {
	return Edge{
		ID:           id,
		Source:       c.Source,
		Target:       c.Target,
		SourceHandle: c.SourceHandle,
		TargetHandle: c.TargetHandle,
		Animated:     true,
	}
}
