// Package task holds the per-deploy context shared by the deploy entry
// points.
//
// A Config binds a cluster context, a namespace and a logger, and lazily owns
// the discovery catalog for the run. Kind lists are memoized per Config:
//
//	cfg := task.New("prod", "web")
//	kinds := cfg.NamespacedKinds(ctx) // issues discovery
//	kinds = cfg.NamespacedKinds(ctx)  // served from the snapshot
//
// Independent deploys should each build their own Config; nothing is shared
// between instances.
package task
