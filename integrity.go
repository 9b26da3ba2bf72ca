package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// Violation kinds reported by Check.
const (
	ViolationDangling  = "dangling"
	ViolationSelfLoop  = "self-loop"
	ViolationDuplicate = "duplicate"
)

// CheckOptions selects the optional checks. Dangling references are always
// reported.
type CheckOptions struct {
	RejectSelfLoops  bool
	RejectDuplicates bool
}

// Strict enables every check.
var Strict = CheckOptions{RejectSelfLoops: true, RejectDuplicates: true}

// Violation is one integrity problem found by Check.
type Violation struct {
	Kind   string `json:"kind"`
	EdgeID string `json:"edgeId"`
	Detail string `json:"detail"`
}

// Err returns the sentinel error matching v.Kind.
func (v Violation) Err() error {
	switch v.Kind {
	case ViolationSelfLoop:
		return ErrSelfLoop
	case ViolationDuplicate:
		return ErrDuplicateEdge
	default:
		return ErrDanglingEdge
	}
}

// Check inspects the edges of s. Graph mutations never call it.
func Check(s *Snapshot, opts CheckOptions) []Violation {
	ids := make(map[string]struct{}, len(s.nodes))
	for _, n := range s.nodes {
		ids[n.ID] = struct{}{}
	}

	var out []Violation
	seen := make(map[string]string, len(s.edges))
	for _, e := range s.edges {
		out = append(out, checkEdge(ids, seen, e, opts)...)
	}
	return out
}

func checkEdge(ids map[string]struct{}, seen map[string]string, e Edge, opts CheckOptions) []Violation {
	var out []Violation
	for _, end := range []string{e.Source, e.Target} {
		if _, ok := ids[end]; !ok {
			out = append(out, Violation{
				Kind:   ViolationDangling,
				EdgeID: e.ID,
				Detail: fmt.Sprintf("node %q does not exist", end),
			})
		}
	}
	if opts.RejectSelfLoops && e.Source == e.Target {
		out = append(out, Violation{
			Kind:   ViolationSelfLoop,
			EdgeID: e.ID,
			Detail: fmt.Sprintf("node %q", e.Source),
		})
	}
	if opts.RejectDuplicates {
		k := edgeKey(e)
		if first, ok := seen[k]; ok {
			out = append(out, Violation{
				Kind:   ViolationDuplicate,
				EdgeID: e.ID,
				Detail: fmt.Sprintf("same endpoints as %s", first),
			})
		} else {
			seen[k] = e.ID
		}
	}
	return out
}

func edgeKey(e Edge) string {
	return strings.Join([]string{e.Source, e.SourceHandle, e.Target, e.TargetHandle}, "\x00")
}

// Validate runs Check and folds the violations into one error, or returns
// nil. The result matches the sentinel of every violation kind found.
func Validate(s *Snapshot, opts CheckOptions) error {
	vs := Check(s, opts)
	if len(vs) == 0 {
		return nil
	}
	errs := make([]error, len(vs))
	for i, v := range vs {
		errs[i] = fmt.Errorf("edge %s: %w: %s", v.EdgeID, v.Err(), v.Detail)
	}
	return errors.Join(errs...)
}

// CanConnect reports whether adding c to s keeps it clean under opts. Only
// problems with c itself are reported, never those of existing edges.
func CanConnect(s *Snapshot, c Connection, opts CheckOptions) error {
	var errs []error
	for _, end := range []string{c.Source, c.Target} {
		if s.nodeIndex(end) < 0 {
			errs = append(errs, fmt.Errorf("%w: node %q does not exist", ErrDanglingEdge, end))
		}
	}
	if opts.RejectSelfLoops && c.Source == c.Target {
		errs = append(errs, fmt.Errorf("%w: node %q", ErrSelfLoop, c.Source))
	}
	if opts.RejectDuplicates {
		k := edgeKey(c.edge(""))
		for _, e := range s.edges {
			if edgeKey(e) == k {
				errs = append(errs, fmt.Errorf("%w: same endpoints as %s", ErrDuplicateEdge, e.ID))
				break
			}
		}
	}
	return errors.Join(errs...)
}
