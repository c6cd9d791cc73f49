// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

/*
Package services provides suture.Service wrappers for Stylematch components.

Each wrapper translates a component lifecycle into suture's context-aware
Serve pattern and identifies itself via fmt.Stringer.

# Available Services

Catalog (CatalogService):
  - Restores descriptor snapshots once, then performs the initial catalog load
  - Returns initial load failures so the supervisor retries with backoff
  - Optionally re-reads the catalog on an interval
  - Reload can also be triggered from the admin API

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Configurable shutdown timeout (default: 10s)

# Usage

	tree.AddCatalogService(services.NewCatalogService(loader, recSvc, snapshots, cfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 15*time.Second, logger))

# Error Handling

A service returning an error is restarted by its supervisor. Returning
ctx.Err() after cancellation is a normal shutdown. A catalog service whose
catalog is already in service never returns a reload error; it logs the
failure and keeps the previous catalog.
*/
package services
