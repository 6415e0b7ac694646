package app

import (
	"context"
	"errors"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/configstore"
	"github.com/vk/orabatch/internal/diag"
	"github.com/vk/orabatch/internal/setup"
)

// GenericWeatherResources are the weather resources available to every
// study, independent of the datasets found under wthr_dir.
var GenericWeatherResources = []string{"CRU"}

// Session is the state of one initiated launcher run. It is owned by the
// caller; nothing here is shared between sessions.
type Session struct {
	Settings         config.Values
	Config           config.Values
	Lookup           *collab.Lookup
	Params           *collab.Params
	AnimalProduction *collab.AnimalProduction
	// WeatherSets is nil when wthr_dir is disabled or holds no datasets.
	WeatherSets      []collab.WeatherSet
	WeatherResources []string
	LogFile          string

	// ConfigValid is false when the config loaded but its management
	// directory could not be resolved.
	ConfigValid bool
	// Problems are the recoverable conditions met while initiating.
	Problems    hcl.Diagnostics
}

// Initiate loads and validates everything a batch run needs. A fatal
// condition at any stage is returned as a *diag.FatalError; the caller
// decides how to terminate.
func (a *App) Initiate(ctx context.Context) (*Session, error) {
	ctx = a.withLogger(ctx)
	logger := a.logger
	logger.Debug("Session initiation started.", "workdir", a.config.WorkDir, "program_id", a.config.ProgramID)

	loader := setup.NewLoader(a.config.WorkDir, a.console, a.collab)
	res, diags := loader.Load(ctx, a.config.ProgramID)
	if err := diag.AsFatal("setup", diags); err != nil {
		return nil, err
	}
	sess := &Session{
		Settings:         res.Settings,
		Lookup:           res.Lookup,
		WeatherResources: append([]string(nil), GenericWeatherResources...),
		Problems:         diag.Warnings(diags),
	}
	settings := sess.Settings
	report := diag.NewReport(a.console)

	paramsXLS := settings.String(config.KeyParamsXLS)
	params, err := a.collab.Reader.ReadParams(ctx, paramsXLS)
	if err != nil {
		report.Fatal("Could not read crop, OW and N parameters from "+paramsXLS, err.Error())
		return nil, diag.AsFatal("params", report.Diags)
	}
	sess.Params = params

	anml, err := a.collab.Animals.ReadAnimalProduction(ctx, paramsXLS, params.CropVars)
	if err != nil {
		report.Fatal("Could not read animal production parameters from "+paramsXLS, err.Error())
		return nil, diag.AsFatal("params", report.Diags)
	}
	sess.AnimalProduction = anml

	if !settings.IsNull(config.KeyWthrDir) {
		sets, err := a.collab.Weather.ReadWeatherSets(ctx, settings.String(config.KeyWthrDir))
		if err != nil {
			report.Warn("Could not read weather datasets", err.Error())
		}
		if len(sets) > 0 {
			sess.WeatherSets = sets
		}
	}

	logFile, err := a.attachLogFile(settings.String(config.KeyLogDir))
	if err != nil {
		report.Warn("Structured log file not available", err.Error())
	} else {
		sess.LogFile = logFile
		ctx = a.withLogger(ctx)
		a.logger.Info("Session log started.", "path", logFile, "program_id", a.config.ProgramID)
	}

	store := configstore.NewStore(a.config.WorkDir, a.console, a.collab.RunFiles)
	cfg, err := store.Load(ctx, settings, params)
	switch {
	case errors.Is(err, configstore.ErrManagementDir):
		report.Warn("Configuration is not valid", err.Error())
	case err != nil:
		return nil, err
	default:
		sess.ConfigValid = true
	}
	sess.Config = cfg
	sess.Problems = append(sess.Problems, report.Diags...)

	a.logger.Info("Session initiated.",
		"studies", settings.Strings(config.KeyStudies),
		"weather_sets", len(sess.WeatherSets),
		"config_valid", sess.ConfigValid,
		"problems", len(sess.Problems))
	return sess, nil
}
