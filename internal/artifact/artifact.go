package artifact

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/bib/services/credit-risk-service/internal/feature"
	"github.com/bibbank/bib/services/credit-risk-service/internal/ml"
)

// Artifact is the immutable fitted model bundle: the canonical feature
// schema, the fitted preprocessing transformer and the trained classifier.
// The training pipeline owns its creation; the scoring service only ever
// holds a read-only reference and may share one loaded instance across
// concurrent requests, since transform and predict are pure given the frozen
// state.
type Artifact struct {
	ID          string                 `json:"id"`
	CreatedAt   time.Time              `json:"created_at"`
	Transformer *feature.Transformer   `json:"transformer"`
	Classifier  *ml.LogisticRegression `json:"classifier"`
}

// New creates an artifact from a fitted transformer and trained classifier.
func New(transformer *feature.Transformer, classifier *ml.LogisticRegression) (*Artifact, error) {
	a := &Artifact{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		Transformer: transformer,
		Classifier:  classifier,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks that the bundle is complete and fully fitted. A partially
// built artifact must never become visible to the scoring path.
func (a *Artifact) Validate() error {
	if a.Transformer == nil {
		return fmt.Errorf("artifact: missing transformer")
	}
	if !a.Transformer.Fitted {
		return fmt.Errorf("artifact: transformer is not fitted")
	}
	if a.Classifier == nil {
		return fmt.Errorf("artifact: missing classifier")
	}
	if !a.Classifier.Trained {
		return fmt.Errorf("artifact: classifier is not trained")
	}
	if len(a.Transformer.Schema.Columns()) != len(a.Classifier.Weights) {
		return fmt.Errorf("artifact: schema has %d columns but classifier has %d weights",
			len(a.Transformer.Schema.Columns()), len(a.Classifier.Weights))
	}
	return nil
}

// Schema returns the canonical feature schema the bundle was trained with.
func (a *Artifact) Schema() feature.Schema {
	return a.Transformer.Schema
}

// PersistenceError reports an artifact save or load failure. It is fatal at
// startup: the scoring service refuses to enter the ready state.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("artifact %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is the persistence port for fitted model artifacts. Both operations
// are all-or-nothing: no partial writes or reads.
type Store interface {
	Save(a *Artifact, path string) error
	Load(path string) (*Artifact, error)
}
