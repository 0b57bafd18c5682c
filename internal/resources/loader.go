package resources

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"

	apperrors "github.com/ZanzyTHEbar/date-decision-simulator/internal/errors"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/model"
)

// Default artifact names
const (
	DefaultModelName    = "dating_model.json"
	DefaultBaselineName = "baseline.csv"
)

// Loader reads the classifier and the baseline template from a Source
type Loader struct {
	source   Source
	model    string
	baseline string
	logger   *slog.Logger
}

// NewLoader creates a loader. Empty names fall back to the defaults.
func NewLoader(source Source, modelName, baselineName string, logger *slog.Logger) *Loader {
	if modelName == "" {
		modelName = DefaultModelName
	}
	if baselineName == "" {
		baselineName = DefaultBaselineName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{source: source, model: modelName, baseline: baselineName, logger: logger}
}

// Artifacts returns the model and baseline names
func (l *Loader) Artifacts() (string, string) {
	return l.model, l.baseline
}

// Load reads both artifacts. A missing artifact is a ResourceNotFound error,
// anything else that goes wrong is a LoadError.
func (l *Loader) Load(ctx context.Context) (model.Classifier, *features.BaselineTemplate, error) {
	var clf model.Classifier
	err := l.read(ctx, l.model, func(r io.Reader) error {
		var err error
		clf, err = model.Decode(r)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	var baseline *features.BaselineTemplate
	err = l.read(ctx, l.baseline, func(r io.Reader) error {
		var err error
		baseline, err = ParseBaseline(l.baseline, r)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	l.logger.Info("Artifacts loaded",
		"model", l.source.Location(l.model),
		"model_features", len(clf.FeatureNames()),
		"baseline", l.source.Location(l.baseline),
		"baseline_columns", baseline.Len(),
	)
	return clf, baseline, nil
}

func (l *Loader) read(ctx context.Context, name string, decode func(io.Reader) error) error {
	rc, err := l.source.Open(ctx, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperrors.NewResourceNotFoundError(name, err)
		}
		return apperrors.NewLoadError(name, err)
	}
	defer apperrors.SafeClose(rc, name)

	if err := decode(rc); err != nil {
		return apperrors.NewLoadError(name, err)
	}
	return nil
}
