// Package discovery enumerates the resource kinds a cluster serves and
// computes which of them may be pruned after a deploy.
//
// Catalog issues discovery commands through a kubectl.Runner and parses the
// tabular output. Builder combines the kind list with the group/version
// table and a Blacklist of protected kinds into PrunableResourceIDs.
//
// Every failure in this package degrades to an empty result. Under-pruning
// is always preferred to pruning against incomplete data.
package discovery
