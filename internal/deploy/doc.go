// Package deploy provides the two deploy entry points.
//
// DeployTask works inside one namespace and can only prune namespaced kinds.
// GlobalDeployTask works on cluster-scoped resources and requires a selector.
// They are separate types over a shared executor, so a namespaced deploy has
// no way to reach the global prune whitelist. Asking a DeployTask for global
// resources fails at construction with ErrGlobalsNotAllowed:
//
//	cfg := task.New("prod", "web")
//	_, err := deploy.NewDeployTask(cfg, deploy.DeployOptions{AllowGlobals: true})
//	errors.Is(err, deploy.ErrGlobalsNotAllowed) // true
//
// When the prune whitelist comes back empty, for example because discovery
// failed, the deploy still applies but does not prune.
package deploy
