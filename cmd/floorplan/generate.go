package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorustyt/floorplan/common/log"
	"github.com/gorustyt/floorplan/export"
	"github.com/gorustyt/floorplan/floorplan"
	"github.com/gorustyt/floorplan/navbuild"
	"github.com/gorustyt/floorplan/recast"
)

var (
	scenePath     string
	outPath       string
	timeout       time.Duration
	maxConcurrent int
)

func init() {
	generateCmd.Flags().StringVar(&scenePath, "scene", "", "Path to the scene description (yaml or json)")
	generateCmd.Flags().StringVar(&outPath, "out", "floorplan.pb", "Path of the encoded export entity")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort generation after this long (0 disables)")
	generateCmd.Flags().IntVar(&maxConcurrent, "max-builds", 0, "Concurrent builder limit (0 uses GOMAXPROCS)")
	_ = generateCmd.MarkFlagRequired("scene")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build the navmesh and heightfield of a scene and write the export entity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := loadSceneFile(scenePath)
		if err != nil {
			return err
		}
		if err := log.Init(sf.Log); err != nil {
			return err
		}
		defer log.Sync()
		logger := log.Default()

		cfg, err := sf.config()
		if err != nil {
			return err
		}
		g, err := sf.buildGraph()
		if err != nil {
			return err
		}

		builderOpts := []recast.Option{recast.WithLogger(logger)}
		if maxConcurrent > 0 {
			builderOpts = append(builderOpts, recast.WithMaxConcurrent(maxConcurrent))
		}
		reg := prometheus.NewRegistry()
		orch := navbuild.NewOrchestrator(recast.NewBuilder(builderOpts...),
			navbuild.WithLogger(logger),
			navbuild.WithMetrics(navbuild.NewMetrics(reg)),
		)
		node := floorplan.New(g, orch, floorplan.WithConfig(cfg), floorplan.WithLogger(logger))
		if err := g.Add(node); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		if _, err := node.Generate(ctx); err != nil {
			return err
		}

		entity := export.NewEntity(node.Name)
		if err := node.PrepareForExport(entity); err != nil {
			return err
		}
		data, err := entity.Encode()
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}

		nav := node.NavMesh()
		hf := node.Heightfield()
		logger.Info("export written",
			zap.String("path", outPath),
			zap.Int("bytes", len(data)),
			zap.Duration("elapsed", time.Since(start)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "navmesh: %d vertices, %d triangles\n", nav.Mesh.VertexCount(), nav.Mesh.TriangleCount())
		fmt.Fprintf(cmd.OutOrStdout(), "heightfield: %t\n", hf != nil && hf.Data != nil)
		return nil
	},
}
