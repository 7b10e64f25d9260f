/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	libhts "github.com/nabbar/golib/httpserver"
	liblog "github.com/nabbar/golib/logger"

	"github.com/nabbar/lamina/cleaner"
	"github.com/nabbar/lamina/config"
	"github.com/nabbar/lamina/gateway"
	"github.com/nabbar/lamina/multipart"
	"github.com/nabbar/lamina/sigv4"
	"github.com/nabbar/lamina/storage"
	"github.com/nabbar/lamina/storage/lock"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway's HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a Lamina config file (optional; falls back to a home-directory search)")

	return cmd
}

// runServe performs the one-shot constructor-injected wiring SPEC_FULL.md
// §9 calls for: load and validate the config, build the storage engine
// and attach its optional metadata cache, build the multipart manager
// and the cleanup sweepers over the same lock manager and meta store
// the engine itself uses, build the sigv4 validator when authentication
// is enabled, and register the resulting gin router with the teacher's
// httpserver.
func runServe(ctx context.Context, configPath string) error {
	printBanner()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	locks := lock.NewInMemoryManager(ctx)

	engine, eErr := storage.NewEngine(cfg.StorageConfig(), locks)
	if eErr != nil {
		return fmt.Errorf("building storage engine: %w", eErr)
	}
	engine.SetMetadataCache(cfg.BuildMetadataCache(ctx))

	mpart := multipart.New(engine.MultipartRoot(), engine, locks)

	sweepers := cleaner.New(cfg.CleanerConfig(), mpart, engine.MetaStore(), engine)
	if sErr := sweepers.Start(ctx); sErr != nil {
		return fmt.Errorf("starting cleanup sweepers: %w", sErr)
	}
	defer func() { _ = sweepers.Stop(ctx) }()

	var validator *sigv4.Validator
	if cfg.Authentication.Enabled {
		validator = sigv4.NewValidator(config.NewStaticUserLookup(cfg.Authentication))
	}

	router := gateway.NewRouter(&gateway.Server{
		Engine:    engine,
		Multipart: mpart,
		Validator: validator,
	})

	httpCfg := cfg.HTTPServerConfig()
	httpCfg.RegisterHandlerFunc(func() map[string]http.Handler {
		return map[string]http.Handler{"": router}
	})

	logFn := func() liblog.Logger { return liblog.New(ctx) }

	srv, sErr := libhts.New(httpCfg, logFn)
	if sErr != nil {
		return fmt.Errorf("building HTTP server: %w", sErr)
	}

	if sErr := srv.Start(ctx); sErr != nil {
		return fmt.Errorf("starting HTTP server: %w", sErr)
	}
	liblog.InfoLevel.Logf("laminad listening on %s", cfg.Server.Listen)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	liblog.InfoLevel.Logf("shutting down")
	return srv.Stop(ctx)
}
