// Package provision requests replacement nodes for permanently failed
// ones. The provisioner is optional: without one, a CRITICAL remediation
// reduces to marking the node dead.
package provision
