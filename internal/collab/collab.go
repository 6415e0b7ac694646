// Package collab declares the contracts of the external domain
// collaborators: workbook readers, the soil database integrity check, the
// weather dataset catalog, the run-file checker and the model entry points.
// The launcher hands them validated paths or Values and receives populated
// structures or an error, never a panic.
//
// The default implementations only validate what the launcher can verify on
// its own: that files and directories exist and that workbooks are readable
// xlsx containers. Spreadsheet contents are interpreted by the model.
package collab

import (
	"context"

	"github.com/vk/orabatch/internal/config"
)

// Lookup is the validated lookup-table workbook.
type Lookup struct {
	Path   string
	Sheets []string
}

// Params is the crop, organic waste, nitrogen and animal production
// parameter workbook.
type Params struct {
	Path     string
	Sheets   []string
	CropVars []string
	// OWTypes lists the allowable organic waste types.
	OWTypes  []string
}

// AnimalProduction is the livestock part of the parameter workbook.
type AnimalProduction struct {
	Path     string
	CropVars []string
}

// WeatherSet is one weather dataset found under the weather directory.
type WeatherSet struct {
	Name string
	Dir  string
}

// RunContext is what the model entry points receive for one run.
type RunContext struct {
	Settings         config.Values
	Config           config.Values
	MgmtDir          string
	Params           *Params
	AnimalProduction *AnimalProduction
	WeatherSets      []WeatherSet

	// LivestockRunData is the result of the livestock run-data check,
	// made once per run by the livestock stage's gate.
	LivestockRunData bool
}

type LookupReader interface {
	ReadLookup(ctx context.Context, settings config.Values) (*Lookup, error)
}

type ParamsChecker interface {
	CheckParams(ctx context.Context, path string) error
}

type ParamsReader interface {
	ReadParams(ctx context.Context, path string) (*Params, error)
}

type AnimalProductionReader interface {
	ReadAnimalProduction(ctx context.Context, path string, cropVars []string) (*AnimalProduction, error)
}

type HWSDChecker interface {
	CheckHWSD(ctx context.Context, dir string) error
}

type WeatherCatalog interface {
	ReadWeatherSets(ctx context.Context, dir string) ([]WeatherSet, error)
}

// RunFileChecker inspects a run-definition spreadsheet. runModel reports
// whether the file asks for the model to be run.
type RunFileChecker interface {
	CheckRunFile(ctx context.Context, path, mgmtDir string) (descr string, runModel bool, err error)
}

// Models are the simulation entry points.
type Models interface {
	RunSoilCN(ctx context.Context, rc *RunContext) error
	CheckLivestockRunData(ctx context.Context, rc *RunContext) bool
	RunLivestock(ctx context.Context, rc *RunContext) error
	RunEconomics(ctx context.Context, rc *RunContext) error
}

// Set bundles every collaborator a session needs.
type Set struct {
	Lookup   LookupReader
	Params   ParamsChecker
	Reader   ParamsReader
	Animals  AnimalProductionReader
	HWSD     HWSDChecker
	Weather  WeatherCatalog
	RunFiles RunFileChecker
	Models   Models
}

// Default returns the file-validating collaborators and model entry points
// that are not linked to a simulation engine.
func Default() Set {
	wb := Workbooks{}
	return Set{
		Lookup:   wb,
		Params:   wb,
		Reader:   wb,
		Animals:  wb,
		HWSD:     HWSD{},
		Weather:  WeatherDirs{},
		RunFiles: wb,
		Models:   Unlinked{},
	}
}

// WithDefaults fills nil members of s from Default.
func (s Set) WithDefaults() Set {
	d := Default()
	if s.Lookup == nil {
		s.Lookup = d.Lookup
	}
	if s.Params == nil {
		s.Params = d.Params
	}
	if s.Reader == nil {
		s.Reader = d.Reader
	}
	if s.Animals == nil {
		s.Animals = d.Animals
	}
	if s.HWSD == nil {
		s.HWSD = d.HWSD
	}
	if s.Weather == nil {
		s.Weather = d.Weather
	}
	if s.RunFiles == nil {
		s.RunFiles = d.RunFiles
	}
	if s.Models == nil {
		s.Models = d.Models
	}
	return s
}
