package lib

import (
	"os"
	"path/filepath"
)

const (
	ConfigFileName = "config.json"
	DefaultDBName  = "arbor"
)

// Config is the top-level configuration document, persisted as JSON in the
// node's data directory
type Config struct {
	MainConfig
	StoreConfig
}

// MainConfig holds identity settings for the chain instance
type MainConfig struct {
	ChainID     string `json:"chainID"`     // identifies the chain this state belongs to
	NativeToken string `json:"nativeToken"` // address of the chain's native token
	LogLevel    int32  `json:"logLevel"`    // minimum level emitted by the logger
	DataDirPath string `json:"dataDirPath"` // path where the db and logs live
}

// StoreConfig holds settings for the storage engine
type StoreConfig struct {
	DBName       string `json:"dbName"`       // name of the database directory
	InMemory     bool   `json:"inMemory"`     // run the db fully in memory (testing)
	RetainEpochs uint64 `json:"retainEpochs"` // historical tree stores kept beyond the current epoch; 0 keeps everything
}

// DefaultConfig() returns the standard configuration
func DefaultConfig() Config {
	return Config{
		MainConfig: MainConfig{
			ChainID:     "arbor-1",
			NativeToken: "atoken",
			LogLevel:    DebugLevel,
			DataDirPath: DefaultDataDirPath(),
		},
		StoreConfig: StoreConfig{
			DBName:       DefaultDBName,
			InMemory:     false,
			RetainEpochs: 0,
		},
	}
}

// DBPath() returns the filesystem path of the database
func (c Config) DBPath() string { return filepath.Join(c.DataDirPath, c.DBName) }

// NewConfigFromFile() reads a Config from a JSON file
func NewConfigFromFile(filePath string) (c Config, err ErrorI) {
	bz, e := os.ReadFile(filePath)
	if e != nil {
		return Config{}, ErrReadFile(e)
	}
	c = DefaultConfig()
	if err = UnmarshalJSON(bz, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// WriteToFile() persists the Config as indented JSON at the data dir path
func (c Config) WriteToFile(dataDirPath string) ErrorI {
	bz, err := MarshalJSONIndent(c)
	if err != nil {
		return err
	}
	if e := os.MkdirAll(dataDirPath, os.ModePerm); e != nil {
		return ErrWriteFile(e)
	}
	if e := os.WriteFile(filepath.Join(dataDirPath, ConfigFileName), bz, os.ModePerm); e != nil {
		return ErrWriteFile(e)
	}
	return nil
}
