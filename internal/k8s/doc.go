// Package k8s talks to the Kubernetes API with client-go.
//
// It loads kubeconfig contexts into REST configs, looks up namespaces, and
// provides DiscoveryRunner, a kubectl.Runner that serves the discovery
// commands straight from the API server instead of a kubectl subprocess:
//
//	clientset, err := k8s.NewClientset(k8s.ClientConfig{Context: "prod"})
//	if err != nil {
//		return err
//	}
//	runner := k8s.NewDiscoveryRunner(clientset.Discovery(), logger)
//	catalog := discovery.NewCatalog(runner, logger)
//
// The tables DiscoveryRunner renders use the current kubectl layout, with
// an APIVERSION column, so the discovery package parses both transports the
// same way.
package k8s
