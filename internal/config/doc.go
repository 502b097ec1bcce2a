// Package config loads kdeploy settings from an optional kdeploy.yaml and
// KDEPLOY_* environment variables.
//
//	context: prod
//	namespace: web
//	discovery:
//	  transport: api
//	  attempts: 3
//	prune:
//	  protected_kinds: [Namespace, Node, CustomResourceDefinition]
//
// Command line flags take precedence over both.
package config
