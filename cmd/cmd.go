/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package cmd assembles the ndnd binary's command tree: the forwarding
// daemon lives as the "yanfd" subcommand of the root "ndnd" command.
package cmd

import (
	fw "github.com/nfdgo/ndnd/fw/cmd"
	"github.com/nfdgo/ndnd/std/utils"
	"github.com/spf13/cobra"
)

// CmdNDNd is the root command for the ndnd binary.
var CmdNDNd = &cobra.Command{
	Use:     "ndnd",
	Short:   "Named Data Networking daemon",
	Version: utils.NDNdVersion,
}

func init() {
	CmdNDNd.AddGroup(&cobra.Group{ID: "run", Title: "Run:"})
	CmdNDNd.AddCommand(fw.CmdYaNFD)
}
