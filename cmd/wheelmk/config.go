package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"git.fractalqb.de/fractalqb/wheelmk"
)

const envPrefix = "WHEELMK"

const (
	keyVersion    = "version"
	keyDir        = "dir"
	keySrc        = "src"
	keyOutDir     = "out-dir"
	keyLib        = "lib"
	keyPkgDir     = "pkg-dir"
	keyBuildData  = "build-data"
	keyOutput     = "output"
	keyPkgInfo    = "pkg-info"
	keyPlat       = "plat"
	keyNoRepair   = "no-repair"
	keyPython     = "python"
	keyTag        = "tag"
	keyGo         = "go"
	keyEnvFile    = "env-file"
	keyLog        = "log"
	keyLogFormat  = "log-format"
	keyConfigFile = "config"
)

type config struct {
	Version   string
	Dir       string
	Src       string
	OutDir    string
	Lib       string
	PkgDir    string
	BuildData string
	Output    string
	PkgInfo   string
	Plat      string
	NoRepair  bool
	Python    string
	Tag       string
	Go        string
	EnvFile   string
	Log       string
	LogFormat string
}

func addFlags(fs *pflag.FlagSet) {
	fs.String(keyVersion, "", "Version of the wheel, placeholders are resolved")
	fs.String(keyDir, ".", "Project directory")
	fs.String(keySrc, wheelmk.DefaultSrcDir, "Go package of the library")
	fs.String(keyOutDir, wheelmk.DefaultOutDir, "Output directory of the library")
	fs.String(keyLib, wheelmk.DefaultLibPrefix, "Library file name without extension")
	fs.String(keyPkgDir, wheelmk.DefaultPkgDir, "Directory of the library in the wheel")
	fs.String(keyBuildData, "", "Read build data JSON from file, '-' for stdin")
	fs.String(keyOutput, "", "Write build data JSON to file, '-' for stdout")
	fs.String(keyPkgInfo, wheelmk.DefaultPkgInfo, "PKG-INFO file for the version fallback")
	fs.String(keyPlat, "", "Platform to repair Linux libraries for")
	fs.Bool(keyNoRepair, false, "Do not repair the library")
	fs.String(keyPython, "python3", "Python interpreter to ask for the platform tag")
	fs.String(keyTag, "", "Use this platform tag instead of asking Python")
	fs.String(keyGo, "", "Go executable")
	fs.String(keyEnvFile, "", "Dotenv file with variables for the build")
	fs.String(keyLog, "warn", "Log level: off, warn, info or debug")
	fs.String(keyLogFormat, "text", "Log format: text or json")
	fs.String(keyConfigFile, "", "Config file, default wheelmk.yaml in the project directory")
}

// newViper binds the flags of cmd. Flags override WHEELMK_* environment
// variables which override the config file.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return v, nil
}

func loadConfig(cmd *cobra.Command) (*config, error) {
	v, err := newViper(cmd)
	if err != nil {
		return nil, err
	}
	if file, _ := cmd.Flags().GetString(keyConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("wheelmk")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString(keyDir))
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	cfg := &config{
		Version:   v.GetString(keyVersion),
		Dir:       v.GetString(keyDir),
		Src:       v.GetString(keySrc),
		OutDir:    v.GetString(keyOutDir),
		Lib:       v.GetString(keyLib),
		PkgDir:    v.GetString(keyPkgDir),
		BuildData: v.GetString(keyBuildData),
		Output:    v.GetString(keyOutput),
		PkgInfo:   v.GetString(keyPkgInfo),
		Plat:      v.GetString(keyPlat),
		NoRepair:  v.GetBool(keyNoRepair),
		Python:    v.GetString(keyPython),
		Tag:       v.GetString(keyTag),
		Go:        v.GetString(keyGo),
		EnvFile:   v.GetString(keyEnvFile),
		Log:       v.GetString(keyLog),
		LogFormat: v.GetString(keyLogFormat),
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("illegal log format '%s'", cfg.LogFormat)
	}
	return cfg, nil
}
