package resources

import (
	"context"
	"errors"
	"sync"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/model"
)

var (
	// ErrAlreadyInitialized is returned by a second Init without Reset
	ErrAlreadyInitialized = errors.New("resources already initialized")
	// ErrNotInitialized is returned by Get before a successful Init
	ErrNotInitialized = errors.New("resources not initialized")
)

// Resources is the process-wide, read-only pair used by every interaction
type Resources struct {
	Classifier model.Classifier
	Baseline   *features.BaselineTemplate
}

// ResourceLoader is implemented by Loader
type ResourceLoader interface {
	Load(ctx context.Context) (model.Classifier, *features.BaselineTemplate, error)
}

var (
	mu      sync.RWMutex
	current *Resources
)

// Init loads the resources once. A failed Init leaves the state empty so the
// caller can report the error; it does not retry.
func Init(ctx context.Context, loader ResourceLoader) (*Resources, error) {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return nil, ErrAlreadyInitialized
	}

	clf, baseline, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	current = &Resources{Classifier: clf, Baseline: baseline}
	return current, nil
}

// Get returns the initialized resources
func Get() (*Resources, error) {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil {
		return nil, ErrNotInitialized
	}
	return current, nil
}

// Reset drops the cached resources
func Reset() {
	mu.Lock()
	current = nil
	mu.Unlock()
}
