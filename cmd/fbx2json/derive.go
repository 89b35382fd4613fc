package main

import (
	"context"
	"errors"
	"time"

	"fbx2json/internal/config"
	"fbx2json/internal/scene"
	"fbx2json/internal/tangent"
)

// derive runs the tangent pass when enabled and logs per-mesh outcomes.
func derive(ctx context.Context, s *scene.Scene, cfg *config.Config) error {
	if !cfg.DeriveTangents() {
		return nil
	}
	start := time.Now()
	rep, err := tangent.DeriveScene(ctx, s, tangent.Options{Workers: cfg.Workers, BestEffort: cfg.BestEffort})
	recorder.Since("derive", start)
	recorder.ObserveReport(rep)

	for _, r := range rep.Results {
		logger.Debug("mesh", "node", r.NodeName, "mesh", r.MeshName, "outcome", r.Outcome.Status, "count", r.Outcome.Count)
	}
	for _, f := range rep.Failures {
		logger.Warn("tangent derivation failed", "node", f.NodeName, "mesh", f.MeshName, "error", f.Reason)
	}
	logger.Info("tangents", "applied", rep.Applied, "skipped", rep.Skipped, "failed", len(rep.Failures))

	var failed *tangent.FailedError
	if errors.As(err, &failed) {
		logger.Error("aborting, rerun with --best-effort to export anyway")
	}
	return err
}
