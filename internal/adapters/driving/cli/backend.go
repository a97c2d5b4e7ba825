package cli

import (
	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/adapters/driven/config/file"
	"github.com/custodia-labs/qapairs/internal/adapters/driven/output/jsonfile"
	"github.com/custodia-labs/qapairs/internal/adapters/driven/source/fixtures"
	"github.com/custodia-labs/qapairs/internal/adapters/driven/source/overrides"
	"github.com/custodia-labs/qapairs/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/core/ports/driving"
	"github.com/custodia-labs/qapairs/internal/core/services"
	"github.com/custodia-labs/qapairs/internal/postprocessors"
	"github.com/custodia-labs/qapairs/internal/segmenters"
)

// Backend builds the services commands run against.
type Backend interface {
	// Settings returns the settings service.
	Settings() driving.SettingsService

	// Extraction builds an extraction service for settings. With sinks
	// false nothing is written. The returned func releases the sinks.
	Extraction(settings *domain.Settings, sinks bool) (driving.ExtractionService, func() error, error)

	// Records opens the record database at path; empty selects the default.
	Records(path string) (driving.RecordService, func() error, error)
}

var (
	backend Backend

	// newBackend is replaced in tests.
	newBackend = func(dir string) (Backend, error) {
		return NewBackend(dir)
	}
)

// initBackend creates the backend once per process.
func initBackend() error {
	if backend != nil {
		return nil
	}
	b, err := newBackend(configDir)
	if err != nil {
		return eris.Wrap(err, "initialising")
	}
	backend = b
	return nil
}

// fileBackend wires the file, JSON and SQLite adapters.
type fileBackend struct {
	settings *services.SettingsService
}

// NewBackend creates a backend reading configuration from dir.
func NewBackend(dir string) (Backend, error) {
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, eris.Wrap(err, "opening configuration")
	}
	return &fileBackend{settings: services.NewSettingsService(store)}, nil
}

func (b *fileBackend) Settings() driving.SettingsService {
	return b.settings
}

func (b *fileBackend) Extraction(
	settings *domain.Settings,
	sinks bool,
) (driving.ExtractionService, func() error, error) {
	segs, err := segmenters.NewDefaultRegistry(settings)
	if err != nil {
		return nil, nil, eris.Wrap(err, "building segmenters")
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := registry.BuildPipeline(settings.Pipeline)
	if err != nil {
		return nil, nil, eris.Wrap(err, "building classification pipeline")
	}

	source := fixtures.New(settings.Inputs, settings.Participant, settings.Forum.RepostPrefix)
	overrideStore := overrides.New(settings.Inputs.Overrides)

	release := func() error { return nil }
	var recordSinks []driven.RecordSink
	if sinks {
		if settings.Output.JSON != "" {
			recordSinks = append(recordSinks, jsonfile.New(settings.Output.JSON))
		}
		if settings.Output.Database != domain.OutputDisabled {
			store, err := sqlite.NewStore(settings.Output.Database)
			if err != nil {
				return nil, nil, eris.Wrap(err, "opening record database")
			}
			recordSinks = append(recordSinks, store)
			release = store.Close
		}
	}

	svc := services.NewExtractionService(source, overrideStore, segs, pipeline, settings.Workers, recordSinks...)
	return svc, release, nil
}

func (b *fileBackend) Records(path string) (driving.RecordService, func() error, error) {
	if path == domain.OutputDisabled {
		return nil, nil, eris.Wrap(domain.ErrInvalidInput, "record database is disabled")
	}
	store, err := sqlite.NewStore(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "opening record database")
	}
	return services.NewRecordService(store), store.Close, nil
}
