// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - View and create the configuration file.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)  Display the settings in effect, secrets masked
//   path            Show the configuration file path
//   init            Write a config file holding the defaults
//   reset           Overwrite the config file with the defaults
//
// Examples:
//   salestrainer config
//   salestrainer config show --json
//   salestrainer config init
//   salestrainer config init --config ./salestrainer.json
//   salestrainer config reset
package cli

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/salestrainer/salestrainer-tui/internal/config"
)

const configUsage = "salestrainer config [show|path|init|reset]"

// HandleConfig runs the config command. loadedFrom is the file the
// settings came from, "" when running on defaults.
func HandleConfig(env *Env, args Args, loadedFrom string) error {
	sub := "show"
	if len(args.Raw) > 0 {
		sub = strings.ToLower(args.Raw[0])
	}

	switch sub {
	case "show":
		return showConfig(env, args, loadedFrom)
	case "path":
		return showConfigPath(env, args, loadedFrom)
	case "init":
		return writeDefaults(env, args, loadedFrom, false)
	case "reset":
		return writeDefaults(env, args, loadedFrom, true)
	default:
		return &UsageError{Message: fmt.Sprintf("unknown config subcommand %q", sub), Usage: configUsage}
	}
}

// configTarget is the file init, reset and path act on: --config, then the
// file that was loaded, then the default TOML location.
func configTarget(args Args, loadedFrom string) (path string, isDefault bool, err error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, false, nil
	}
	if loadedFrom != "" {
		return loadedFrom, false, nil
	}
	path, err = config.ConfigPathTOML()
	return path, true, err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func showConfig(env *Env, args Args, loadedFrom string) error {
	safe := config.Global().Redacted()

	if args.JSON {
		return NewJSONResponse("config show", ConfigData{
			Path:   loadedFrom,
			Config: safe,
		}).Print(env.Out)
	}

	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(safe); err != nil {
		return NewCommandError("config", "encode the settings", err)
	}

	fmt.Fprintln(env.Out, TitleStyle.Render("salestrainer Configuration"))
	fmt.Fprintln(env.Out, RenderSeparator())
	fmt.Fprint(env.Out, b.String())
	fmt.Fprintln(env.Out, RenderSeparator())
	if loadedFrom != "" {
		fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("Config file:"), loadedFrom)
	} else {
		fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("Config file:"), DimStyle.Render("none, using defaults"))
	}
	return nil
}

func showConfigPath(env *Env, args Args, loadedFrom string) error {
	path, _, err := configTarget(args, loadedFrom)
	if err != nil {
		return NewCommandError("config", "locate the config file", err)
	}
	exists := fileExists(path)

	if args.JSON {
		return NewJSONResponse("config path", ConfigPathData{Path: path, Exists: exists}).Print(env.Out)
	}
	fmt.Fprintln(env.Out, path)
	if !exists && !args.Quiet {
		fmt.Fprintln(env.Err, DimStyle.Render("(file does not exist, run: salestrainer config init)"))
	}
	return nil
}

// writeDefaults writes the default settings. Without overwrite an existing
// file is left alone.
func writeDefaults(env *Env, args Args, loadedFrom string, overwrite bool) error {
	path, isDefault, err := configTarget(args, loadedFrom)
	if err != nil {
		return NewCommandError("config", "locate the config file", err)
	}
	if !overwrite && fileExists(path) {
		return &UsageError{
			Message: "config file already exists: " + path,
			Usage:   "salestrainer config reset",
		}
	}

	cfg := config.Default()
	if isDefault {
		err = config.Save(cfg)
	} else {
		err = config.SaveTo(cfg, path)
	}
	if err != nil {
		return NewCommandError("config", "write the config file", err)
	}
	log.Printf("CONFIG_WRITTEN | path=%s reset=%t", path, overwrite)

	if args.JSON {
		command := "config init"
		if overwrite {
			command = "config reset"
		}
		return NewJSONResponse(command, ConfigPathData{Path: path, Exists: true}).Print(env.Out)
	}
	if !args.Quiet {
		fmt.Fprintf(env.Out, "%s Wrote default settings to %s\n", SuccessStyle.Render("[OK]"), path)
	}
	return nil
}
