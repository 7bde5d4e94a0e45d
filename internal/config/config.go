package config

// Config is the root extractor configuration.
type Config struct {
	Dumps    DumpsConfig    `yaml:"dumps"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Sources  []SourceConfig `yaml:"sources"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
}

// DumpsConfig holds the input dump paths. Empty paths disable the
// corresponding parse stage (its inputs are missing, so it is skipped).
type DumpsConfig struct {
	IoWiktionary string `yaml:"io_wiktionary" env:"DUMP_IO_WIKTIONARY"`
	EoWiktionary string `yaml:"eo_wiktionary" env:"DUMP_EO_WIKTIONARY"`
	EnWiktionary string `yaml:"en_wiktionary" env:"DUMP_EN_WIKTIONARY"`
	FrWiktionary string `yaml:"fr_wiktionary" env:"DUMP_FR_WIKTIONARY"`
	IoWikipedia  string `yaml:"io_wikipedia"  env:"DUMP_IO_WIKIPEDIA"`
	Langlinks    string `yaml:"langlinks"     env:"DUMP_LANGLINKS"`
}

// PipelineConfig holds orchestration settings.
type PipelineConfig struct {
	WorkDir       string `yaml:"work_dir"       env:"PIPELINE_WORK_DIR"       env-default:"./work"`
	OutDir        string `yaml:"out_dir"        env:"PIPELINE_OUT_DIR"        env-default:"./out"`
	WikiTopN      int    `yaml:"wiki_top_n"     env:"PIPELINE_WIKI_TOP_N"     env-default:"1000"`
	ProgressEvery int    `yaml:"progress_every" env:"PIPELINE_PROGRESS_EVERY" env-default:"10000"`
	Workers       int    `yaml:"workers"        env:"PIPELINE_WORKERS"        env-default:"1"`
}

// SourceConfig overrides the built-in table of §source defaults for one
// provenance tag.
type SourceConfig struct {
	Tag        string   `yaml:"tag"`
	Enabled    *bool    `yaml:"enabled,omitempty"`
	Priority   *int     `yaml:"priority,omitempty"`
	Confidence *float64 `yaml:"confidence,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// DatabaseConfig holds the PostgreSQL connection for the optional
// dictionary store loader. The extraction pipeline itself never needs it.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"       env:"DATABASE_DSN"`
	MaxConns int32  `yaml:"max_conns" env:"DATABASE_MAX_CONNS" env-default:"10"`
}
