// Package kubectl defines the Runner capability the discovery and deploy
// packages use to talk to a cluster, and an implementation that shells out
// to the kubectl binary.
//
// A Runner returns raw stdout, raw stderr and a Status. It retries failed
// attempts up to RunOptions.Attempts and never escalates a failure on its own.
package kubectl
