package tangent

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fbx2json/internal/channel"
	"fbx2json/internal/scene"
)

// Options controls DeriveScene.
type Options struct {
	// Workers > 1 processes meshes concurrently. Each mesh is visited by
	// exactly one worker.
	Workers int
	// BestEffort reports unsupported mapping modes without failing the
	// call. Other failures never fail it.
	BestEffort bool
}

// MeshResult is the outcome for one mesh-bearing node.
type MeshResult struct {
	NodeName string
	MeshName string
	Outcome  Outcome
	Err      error
}

// Failure describes a mesh the tangents could not be derived for.
type Failure struct {
	NodeName string
	MeshName string
	Reason   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("node %q mesh %q: %v", f.NodeName, f.MeshName, f.Reason)
}

func (f Failure) Unwrap() error { return f.Reason }

// Report aggregates per-mesh outcomes of a scene pass.
type Report struct {
	Applied  int
	Skipped  int
	Failures []Failure
	Results  []MeshResult // traversal order
}

func (r *Report) add(res MeshResult) {
	r.Results = append(r.Results, res)
	switch res.Outcome.Status {
	case Applied:
		r.Applied++
	case Skipped:
		r.Skipped++
	case Failed:
		r.Failures = append(r.Failures, Failure{NodeName: res.NodeName, MeshName: res.MeshName, Reason: res.Err})
	}
}

// FailedError is returned by DeriveScene when at least one mesh has a source
// channel with an unsupported mapping mode and Options.BestEffort is not set.
// Failures holds those meshes only.
type FailedError struct {
	Failures []Failure
}

func (e *FailedError) Error() string {
	if len(e.Failures) == 1 {
		return "tangent: " + e.Failures[0].Error()
	}
	return fmt.Sprintf("tangent: %d meshes failed, first: %v", len(e.Failures), e.Failures[0])
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *FailedError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// DeriveScene runs DeriveMesh on every mesh of s, depth-first. A failing mesh
// does not stop the others. Every failure is listed in the report; only
// unsupported mapping modes fail the call, corrupt channel data is left for
// the caller to judge. Canceling ctx stops dispatching further meshes;
// the report then covers the meshes already processed.
func DeriveScene(ctx context.Context, s *scene.Scene, opts Options) (Report, error) {
	meshes := s.Meshes()
	results := make([]MeshResult, len(meshes))
	done := make([]bool, len(meshes))

	var cerr error
	if opts.Workers <= 1 {
		for i, mn := range meshes {
			if cerr = ctx.Err(); cerr != nil {
				break
			}
			results[i] = deriveNode(mn)
			done[i] = true
		}
	} else {
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for i, mn := range meshes {
			if cerr = ctx.Err(); cerr != nil {
				break
			}
			done[i] = true
			g.Go(func() error {
				results[i] = deriveNode(mn)
				return nil
			})
		}
		g.Wait()
	}

	var rep Report
	for i, res := range results {
		if done[i] {
			rep.add(res)
		}
	}
	if cerr != nil {
		return rep, cerr
	}
	if opts.BestEffort {
		return rep, nil
	}
	var fatal []Failure
	for _, f := range rep.Failures {
		if errors.Is(f.Reason, channel.ErrUnsupportedMappingMode) {
			fatal = append(fatal, f)
		}
	}
	if len(fatal) > 0 {
		return rep, &FailedError{Failures: fatal}
	}
	return rep, nil
}

func deriveNode(mn scene.MeshNode) MeshResult {
	out, err := DeriveMesh(mn.Mesh)
	return MeshResult{
		NodeName: mn.Node.Name,
		MeshName: mn.Mesh.Name,
		Outcome:  out,
		Err:      err,
	}
}
