package config

const (
	// DefaultFillerPath is the default directory holding filler files
	DefaultFillerPath = "./fillers/"
	// DefaultOutputDir is the default directory fixtures are written to
	DefaultOutputDir = "./fixtures/"
	// DefaultEVMBin is the evm executable providing t8n and b11r
	DefaultEVMBin = "evm"
	// DefaultEngine is the seal engine written into blockchain fixtures
	DefaultEngine = "NoProof"
	// DefaultWorkers is the default number of modules filled in parallel
	DefaultWorkers = 4
	// DefaultVerbosity is the default log level (3 = info)
	DefaultVerbosity = 3
	// DefaultConfigFile is the optional project configuration file
	DefaultConfigFile = ".evmfill.yaml"
	// MetaDir holds run metadata inside the output directory
	MetaDir = ".meta"
	// ReportFile is the fill report file name inside MetaDir
	ReportFile = "fill-report.json"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for fillers
var DefaultPathsToIgnore = []string{
	"node_modules",
	"vendor",
	"fixtures",
	"__pycache__",
}
