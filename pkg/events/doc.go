/*
Package events provides an in-memory pub/sub broker for healer events.

The healer publishes an event for every notable decision: an issue
detected, a remediation dispatched or skipped, a node declared dead or
recovered, and configuration updates. Subscribers receive events over
buffered channels; a slow subscriber is skipped rather than allowed to
block the control loop. The operator API streams these events over a
websocket at /events.
*/
package events
