// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/storemigrate/configuration"
	"github.com/bitmark-inc/storemigrate/migration"
)

// setup command handler
//
// commands that need neither the configuration file nor the database
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "migrate", "run", "status", "st", "config-test", "cfg":
		return false // defer processing until configuration is read

	case "version", "v":
		fmt.Printf("%s\n", version)
		fmt.Printf("schema version: %d\n", migration.Latest())
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--dry-run] --config-file=FILE [[command|help] arguments...]\n", program)
		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version string\n\n")
		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n\n")
		fmt.Printf("  status                     (st)     - show stored schema version and pending migrations\n\n")
		fmt.Printf("  migrate                    (run)    - apply all pending migrations, same as no arguments\n")
		fmt.Printf("                                        with --dry-run nothing is written\n")
		fmt.Printf("\n")
		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		_ = json.Indent(&out, b, "", "  ")
		_, _ = out.WriteTo(os.Stdout)
		_, _ = os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

func isStatusCommand(arguments []string) bool {
	return len(arguments) > 0 && ("status" == arguments[0] || "st" == arguments[0])
}

// data command handler
// the database is open so these commands can read and change it
func processDataCommand(log *logger.L, arguments []string, migrator *migration.Migrator) {

	command := "migrate"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "status", "st":
		status, err := migrator.Status()
		if nil != err {
			log.Criticalf("status error: %s", err)
			exitwithstatus.Message("status error: %s", err)
		}
		fmt.Printf("stored version: %d\n", status.Stored)
		fmt.Printf("latest version: %d\n", status.Latest)
		if status.Empty {
			fmt.Printf("database is empty\n")
		}
		for _, name := range status.Pending {
			fmt.Printf("pending: %s\n", name)
		}

	case "migrate", "run":
		results, err := migrator.Run()
		for _, r := range results {
			fmt.Printf("%-28s  version: %d  sets: %8d  deletes: %8d  committed: %v\n", r.Name, r.Version, r.Sets, r.Deletes, r.Committed)
		}
		if nil != err {
			log.Criticalf("migration error: %s", err)
			exitwithstatus.Message("migration error: %s", err)
		}

	default:
		exitwithstatus.Message("error: no such command: %q", command)
	}
}
