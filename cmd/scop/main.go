// Package main is the entry point of the scop OBJ viewer.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/scop/cmd/scop/shaders"
	"github.com/Faultbox/scop/internal/config"
	"github.com/Faultbox/scop/internal/loader"
	"github.com/Faultbox/scop/internal/logger"
	"github.com/Faultbox/scop/internal/viewer"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	config.ParseFlags()

	args := config.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: scop [flags] <file.obj>\n")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== scop ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	mgr, err := loader.NewManager(cfg.Loader.Encoding, logger.Named("loader"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Loader error: %v\n", err)
		return 1
	}
	defer mgr.Close()

	res, err := mgr.Load(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, loader.ErrorMessage(err))
		return 1
	}

	v, err := viewer.New(cfg, "scop - "+filepath.Base(res.Path), res.Model, viewer.Shaders{
		Vertex:   shaders.ModelVertexShader,
		Fragment: shaders.ModelFragmentShader,
	})
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		return 1
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		return 1
	}

	logger.Info("viewer closed normally")
	return 0
}
