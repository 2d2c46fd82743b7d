package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"git.fractalqb.de/fractalqb/wheelmk"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

func newRootCmd(in io.Reader, out, errw io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "wheelmk",
		Short:         "Build the Go library of a Python wheel",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runHook,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errw)
	addFlags(root.Flags())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version of wheelmk",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), appVersion)
		},
	})
	return root
}

func runHook(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tracer, err := newTracer(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	tr := wheelkore.NewTrace(tracer)
	env := wheelkore.DefaultEnv(tr)
	env.In = cmd.InOrStdin()
	env.Out = cmd.OutOrStdout()
	env.Err = cmd.ErrOrStderr()
	if cfg.Output == "-" {
		env.Out = env.Err
	}
	if cfg.EnvFile != "" {
		vars, err := godotenv.Read(cfg.EnvFile)
		if err != nil {
			return fmt.Errorf("env file: %w", err)
		}
		env.SetVarsMap(vars)
	}
	data, err := readBuildData(cmd, cfg)
	if err != nil {
		return err
	}

	hook := newHook(cfg)
	res, err := hook.Initialize(cmd.Context(), tr, env, cfg.Version, data)
	if err != nil {
		return err
	}
	if err := writeBuildData(cmd, cfg, data); err != nil {
		return err
	}
	summary(cmd.ErrOrStderr(), tr, res)
	return nil
}

func newHook(cfg *config) *wheelmk.Hook {
	hook := &wheelmk.Hook{
		Dir:        cfg.Dir,
		SrcDir:     cfg.Src,
		OutDir:     cfg.OutDir,
		LibPrefix:  cfg.Lib,
		PkgDir:     cfg.PkgDir,
		Versions:   wheelmk.VersionConfig{PkgInfo: cfg.PkgInfo},
		Go:         wheelmk.GoTool{GoExe: cfg.Go},
		RepairPlat: cfg.Plat,
	}
	if cfg.NoRepair {
		hook.Repair = wheelmk.NoRepair{}
	}
	if cfg.Tag != "" {
		hook.Tags = wheelmk.StaticTag(cfg.Tag)
	} else {
		hook.Tags = wheelmk.PythonTags{Python: cfg.Python}
	}
	return hook
}

func newTracer(cfg *config, w io.Writer) (wheelkore.Tracer, error) {
	log, err := wheelkore.ParseTraceLog(cfg.Log)
	if err != nil {
		return nil, err
	}
	if cfg.LogFormat != "json" {
		return &wheelmk.WriteTracer{W: w, Log: log}, nil
	}
	var level slog.Level
	switch {
	case log == 0:
		return nil, nil
	case log&wheelkore.TraceDebug != 0:
		level = slog.LevelDebug
	case log&wheelkore.TraceInfo != 0:
		level = slog.LevelInfo
	default:
		level = slog.LevelWarn
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return wheelmk.SlogTracer{Log: slog.New(h)}, nil
}

// readBuildData returns nil when there is neither input nor output for build
// data. Then the hook only builds the library.
func readBuildData(cmd *cobra.Command, cfg *config) (wheelkore.BuildData, error) {
	switch cfg.BuildData {
	case "":
		if cfg.Output == "" {
			return nil, nil
		}
		return wheelkore.BuildData{}, nil
	case "-":
		return wheelkore.ReadBuildData(cmd.InOrStdin())
	}
	f, err := os.Open(cfg.BuildData)
	if err != nil {
		return nil, fmt.Errorf("build data: %w", err)
	}
	defer f.Close()
	data, err := wheelkore.ReadBuildData(f)
	if err != nil {
		return nil, fmt.Errorf("build data %s: %w", cfg.BuildData, err)
	}
	return data, nil
}

func writeBuildData(cmd *cobra.Command, cfg *config, data wheelkore.BuildData) error {
	switch cfg.Output {
	case "":
		return nil
	case "-":
		return data.Write(cmd.OutOrStdout())
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("build data: %w", err)
	}
	if err := data.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("build data %s: %w", cfg.Output, err)
	}
	return f.Close()
}

func summary(w io.Writer, tr *wheelkore.Trace, res *wheelmk.Result) {
	color.New(color.FgGreen).Fprintf(w, "wheelmk: built %s version %s for %s/%s\n",
		res.Lib.Path(),
		res.Version,
		res.Target.GOOS,
		res.Target.GOARCH,
	)
	if ds := tr.Degradations(); len(ds) > 0 {
		names := make([]string, len(ds))
		for i, s := range ds {
			names[i] = s.String()
		}
		color.New(color.FgYellow).Fprintf(w, "wheelmk: degraded stages: %s\n",
			strings.Join(names, ", "),
		)
	}
}
