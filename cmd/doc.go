// Package cmd provides the command-line interface for kdeploy.
//
// Command Structure:
//
//	kdeploy discover [--global] [--wide]          # Lists the kinds the cluster serves
//	kdeploy prune-whitelist [--global]            # Prints the kinds a deploy may prune
//	kdeploy deploy -n NS -f PATH [--selector S]   # Deploys into one namespace
//	kdeploy global-deploy -f PATH --selector S    # Deploys cluster-scoped resources
//	kdeploy version                               # Shows version information
//	kdeploy self-update                           # Updates to latest release
//
// Every command reads kdeploy.yaml and KDEPLOY_* environment variables
// through internal/config; persistent flags such as --context, --namespace
// and --discovery-transport take precedence over both.
//
// Discovery runs through kubectl by default. With --discovery-transport=api
// it talks to the API server directly using client-go.
package cmd
