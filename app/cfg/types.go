package cfg

type Cfg struct {
	// Application configuration
	ConfigPath string
	DataDir    string
	Port       string
	DryRun     bool

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
