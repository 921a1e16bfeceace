/*
Package api exposes the operator-facing HTTP API.

Endpoints:

	GET  /status   config, tracked and dead nodes, per-node baseline state,
	               last-hour action counts, recent log entries
	GET  /log      most recent N action log entries (?limit=N) plus total
	GET  /config   current configuration
	POST /config   partial merge of configuration fields with validation;
	               an invalid update is rejected without touching the
	               live config, and an interval change restarts the timer
	GET  /events   websocket stream of healer events
	GET  /health   liveness check
	GET  /metrics  Prometheus metrics

All responses are JSON. The server is read-mostly; POST /config is the
only mutating endpoint.
*/
package api
