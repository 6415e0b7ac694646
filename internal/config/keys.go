package config

// Setup file keys.
const (
	KeyConfigDir    = "config_dir"
	KeyFnamePNG     = "fname_png"
	KeyLogDir       = "log_dir"
	KeyFnameLookup  = "fname_lookup"
	KeyStudyAreaDir = "study_area_dir"
	KeyHWSDDir      = "hwsd_dir"
	KeyNSubareas    = "nsubareas"
	KeyIrrigDflt    = "irrig_dflt"
	KeyNRotaYrsDflt = "nrota_yrs_dflt"
	KeyAreasDflt    = "areas_dflt"
	KeyExcelDir     = "excel_dir"
	KeyWthrDir      = "wthr_dir"
	KeyParamsXLS    = "params_xls"

	// Optional overrides of platform-specific executables.
	KeyExcelExe   = "excel_exe"
	KeyNotepadExe = "notepad_exe"

	// Derived while loading.
	KeyExcelPath   = "excel_path"
	KeyEconXLSFn   = "econ_xls_fn"
	KeyNotepadPath = "notepad_path"
	KeyFnameRun    = "fname_run"
	KeyStudies     = "studies"
	KeyFarms       = "farms"
	KeyConfigFile  = "config_file"
	KeyInpDir      = "inp_dir"
	KeyStudy       = "study"

	// Set from the session config.
	KeyWriteExcel = "write_excel"
	KeyMgmtDir    = "mgmt_dir"
)

// MandatorySettings lists, in check order, the keys a setup file must carry.
var MandatorySettings = []string{
	KeyConfigDir, KeyFnamePNG, KeyLogDir, KeyFnameLookup, KeyStudyAreaDir, KeyHWSDDir,
	KeyNSubareas, KeyIrrigDflt, KeyNRotaYrsDflt, KeyAreasDflt, KeyExcelDir, KeyWthrDir, KeyParamsXLS,
}

// Config file attributes.
const (
	AttrMgmtDir0      = "mgmt_dir0"
	AttrWriteExcel    = "write_excel"
	AttrClimScnrIndx  = "clim_scnr_indx"
	AttrStrtYrSSIndx  = "strt_yr_ss_indx"
	AttrStrtYrFwdIndx = "strt_yr_fwd_indx"
	AttrStudy         = "study"
	AttrFarmName      = "farm_name"
	AttrUseExstngSoil = "use_exstng_soil"
	AttrUseISDA       = "use_isda"
	AttrUseCSV        = "use_csv"
	AttrNYrsSS        = "nyrs_ss"
	AttrNYrsFwd       = "nyrs_fwd"
	AttrCSVWthrFn     = "csv_wthr_fn"
	AttrOWExMin       = "owex_min"
	AttrOWExMax       = "owex_max"
	AttrOWTypeIndx    = "ow_type_indx"
	AttrMnthApplIndx  = "mnth_appl_indx"
)

// UseSwitches are the feature switches echoed to the console after loading.
var UseSwitches = []string{AttrUseISDA, AttrUseCSV, AttrNYrsSS, AttrNYrsFwd}

// MandatoryAttributes lists the config attributes that must be present.
// AttrUseExstngSoil is the one exception that is defaulted instead of
// failing; see configstore.
var MandatoryAttributes = append([]string{
	AttrMgmtDir0, AttrWriteExcel, AttrClimScnrIndx, AttrStrtYrSSIndx, AttrStrtYrFwdIndx,
	AttrStudy, AttrFarmName, AttrUseExstngSoil,
}, UseSwitches...)

// OrganicWasteAttributes are optional organic-waste parameters.
var OrganicWasteAttributes = []string{AttrOWExMin, AttrOWExMax, AttrOWTypeIndx, AttrMnthApplIndx}

// Fixed file names.
const (
	// FnameRun is the run-definition spreadsheet; its presence also marks a
	// study-area leaf directory.
	FnameRun  = "FarmWthrMgmt.xlsx"
	// FnameEcon is the economics template expected under <install>/run/templates.
	FnameEcon = "PurchasesSalesLabour.xlsx"
)
