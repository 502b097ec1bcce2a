package k8s

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// NamespaceLookup checks namespaces through a clientset.
type NamespaceLookup struct {
	clientset kubernetes.Interface
}

// NewNamespaceLookup creates a lookup over clientset.
func NewNamespaceLookup(clientset kubernetes.Interface) *NamespaceLookup {
	return &NamespaceLookup{clientset: clientset}
}

// NamespaceExists reports whether the namespace exists. A missing namespace
// is not an error.
func (l *NamespaceLookup) NamespaceExists(ctx context.Context, name string) (bool, error) {
	_, err := l.clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get namespace %q: %w", name, err)
	}
	return true, nil
}
