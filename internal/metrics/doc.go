// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

/*
Package metrics provides Prometheus collectors for the recommendation service.

Collectors are registered on the default registry through promauto and are
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation:
  - stylematch_recommend_requests_total{kind,strategy,status}
  - stylematch_recommend_duration_seconds{kind}
  - stylematch_recommend_cache_total{result}
  - stylematch_profile_memo_total{result}

Catalog and features:
  - stylematch_catalog_items
  - stylematch_catalog_loads_total{status}
  - stylematch_catalog_skipped_records_total
  - stylematch_feature_build_duration_seconds
  - stylematch_visual_descriptor_failures_total{provider}

Signals:
  - stylematch_interactions_total{type}
  - stylematch_quiz_submissions_total

Resilience:
  - stylematch_circuit_breaker_state{name}
  - stylematch_circuit_breaker_requests_total{name,result}
  - stylematch_circuit_breaker_state_transitions_total{name,from_state,to_state}

HTTP:
  - stylematch_http_requests_total{method,route,status}
  - stylematch_http_request_duration_seconds{method,route}
  - stylematch_http_active_requests
  - stylematch_http_rate_limit_hits_total{route}

# Example Alert

	- alert: VisualDescriptorCircuitOpen
	  expr: stylematch_circuit_breaker_state{name="visual-descriptor"} == 2
	  for: 5m
*/
package metrics
