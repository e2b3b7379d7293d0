package config

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Names    NamesConfig    `yaml:"names"`
	Export   ExportConfig   `yaml:"export"`
	Server   ServerConfig   `yaml:"server"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" env:"NAMEOFPERSON_DB_PATH"`
}

// NamesConfig controls how person names are stored
type NamesConfig struct {
	// Cast is a cast definition such as "person_name:given_name,family_name"
	Cast string `yaml:"cast" env:"NAMEOFPERSON_NAME_CAST"`
}

// ExportConfig holds defaults for import/export
type ExportConfig struct {
	Format string `yaml:"format" env:"NAMEOFPERSON_EXPORT_FORMAT"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `yaml:"addr" env:"NAMEOFPERSON_ADDR"`
}
