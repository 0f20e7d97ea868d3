// Package persist writes preparation outputs and fitted state to an output
// directory and reads the state back for transform-only runs.
package persist

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"hotelprep/pkg/data"
	"hotelprep/pkg/dataprep"
	"hotelprep/pkg/logger"
	"hotelprep/pkg/pipeline"
	"hotelprep/pkg/stats"
)

// Artifact file names.
const (
	ScalerFile        = "scaler.gob"
	EncodersFile      = "label_encoders.gob"
	FeatureNamesFile  = "feature_names.gob"
	OutlierBoundsFile = "outlier_bounds.gob"
	PreprocessedFile  = "hotel_bookings_preprocessed.csv"
	ManifestFile      = "manifest.json"

	TimestampLayout = "20060102_150405"
)

// Manifest describes one preparation run.
type Manifest struct {
	RunID        string    `json:"run_id"`
	CreatedAt    time.Time `json:"created_at"`
	Timestamp    string    `json:"timestamp"`
	Target       string    `json:"target"`
	Features     int       `json:"features"`
	TrainSamples int       `json:"train_samples"`
	TestSamples  int       `json:"test_samples"`
	Artifacts    []string  `json:"artifacts"`
}

type Store struct {
	fs  afero.Fs
	dir string
	log logger.Logger
	// Now stamps output files; defaults to time.Now.
	Now func() time.Time
}

func NewStore(fs afero.Fs, dir string, log logger.Logger) *Store {
	return &Store{fs: fs, dir: dir, log: logger.OrDiscard(log), Now: time.Now}
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) Path(name string) string { return filepath.Join(s.dir, name) }

// Create opens name inside the store directory for writing.
func (s *Store) Create(name string) (afero.File, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}
	return s.fs.Create(s.Path(name))
}

// Save writes the split tables (timestamped and canonical copies), the full
// preprocessed table, the fitted state and a manifest.
func (s *Store) Save(split *pipeline.Split, state *pipeline.State) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", s.dir, err)
	}
	now := s.Now()
	ts := now.Format(TimestampLayout)

	xTrain, err := data.FromMatrix(split.XTrain, split.FeatureNames)
	if err != nil {
		return err
	}
	xTest, err := data.FromMatrix(split.XTest, split.FeatureNames)
	if err != nil {
		return err
	}
	tables := []struct {
		name string
		df   dataframe.DataFrame
	}{
		{"X_train", xTrain},
		{"X_test", xTest},
		{"y_train", targetFrame(split.Target, split.YTrain)},
		{"y_test", targetFrame(split.Target, split.YTest)},
	}

	var written []string
	write := func(name string, df dataframe.DataFrame) error {
		if err := data.WriteCSV(s.fs, s.Path(name), df); err != nil {
			return err
		}
		written = append(written, name)
		return nil
	}
	for _, t := range tables {
		if err := write(fmt.Sprintf("%s_%s.csv", t.name, ts), t.df); err != nil {
			return err
		}
	}
	for _, t := range tables {
		if err := write(t.name+".csv", t.df); err != nil {
			return err
		}
	}
	if err := write(PreprocessedFile, split.Full); err != nil {
		return err
	}

	state.FeatureNames = split.FeatureNames
	if err := s.SaveState(state); err != nil {
		return err
	}
	written = append(written, ScalerFile, EncodersFile, FeatureNamesFile, OutlierBoundsFile)

	m := Manifest{
		RunID:        uuid.NewString(),
		CreatedAt:    now,
		Timestamp:    ts,
		Target:       split.Target,
		Features:     len(split.FeatureNames),
		TrainSamples: len(split.YTrain),
		TestSamples:  len(split.YTest),
		Artifacts:    written,
	}
	if err := s.writeJSON(ManifestFile, m); err != nil {
		return err
	}
	s.log.Info("artifacts saved", "dir", s.dir, "files", len(written)+1, "run_id", m.RunID)
	return nil
}

func targetFrame(name string, y []int) dataframe.DataFrame {
	return dataframe.New(series.New(y, series.Int, name))
}

// SaveState writes the four fitted-state artifacts.
func (s *Store) SaveState(state *pipeline.State) error {
	if !state.Fitted() {
		return pipeline.ErrNotFitted
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	for name, v := range map[string]any{
		ScalerFile:        state.Scaler,
		EncodersFile:      state.Encoders,
		FeatureNamesFile:  state.FeatureNames,
		OutlierBoundsFile: state.OutlierBounds,
	} {
		if err := s.writeGob(name, v); err != nil {
			return err
		}
	}
	return nil
}

// LoadState restores the fitted state saved by SaveState.
func (s *Store) LoadState() (*pipeline.State, error) {
	state := &pipeline.State{
		Scaler:        &stats.StandardScaler{},
		Encoders:      map[string]*dataprep.LabelEncoder{},
		OutlierBounds: map[string]stats.Bounds{},
	}
	for name, v := range map[string]any{
		ScalerFile:        state.Scaler,
		EncodersFile:      &state.Encoders,
		FeatureNamesFile:  &state.FeatureNames,
		OutlierBoundsFile: &state.OutlierBounds,
	} {
		if err := s.readGob(name, v); err != nil {
			return nil, err
		}
	}
	s.log.Info("preprocessor state loaded", "dir", s.dir, "features", len(state.FeatureNames))
	return state, nil
}

// LoadManifest reads the manifest of the last saved run.
func (s *Store) LoadManifest() (*Manifest, error) {
	f, err := s.fs.Open(s.Path(ManifestFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ManifestFile, err)
	}
	return &m, nil
}

func (s *Store) writeGob(name string, v any) error {
	f, err := s.fs.Create(s.Path(name))
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return f.Close()
}

func (s *Store) readGob(name string, v any) error {
	f, err := s.fs.Open(s.Path(name))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	f, err := s.fs.Create(s.Path(name))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return f.Close()
}

var _ pipeline.ArtifactWriter = (*Store)(nil)
