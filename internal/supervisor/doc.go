// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

/*
Package supervisor provides process supervision for Stylematch using suture v4.

The tree isolates catalog loading from request serving:

	RootSupervisor ("stylematch")
	├── CatalogSupervisor ("catalog-layer")
	│   └── CatalogService (initial load, periodic reload, descriptor snapshots)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A catalog file that fails to parse makes CatalogService return an error, and
suture restarts it with backoff. The HTTP server keeps running throughout:
readiness reports 503 until the first load succeeds, and a failed reload
leaves the previous catalog in service.

# Usage

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
	    FailureThreshold: cfg.Supervisor.FailureThreshold,
	    FailureBackoff:   cfg.Supervisor.FailureBackoff,
	})
	if err != nil {
	    return err
	}

	tree.AddCatalogService(catalogSvc)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

Supervisor events (service failures, restarts, backoff) are logged through
sutureslog into the zerolog stream.
*/
package supervisor
