// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/forcekit/forcekit/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	sd, _ := os.Getwd()
	m := meta.Meta{
		Args:        args,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "forcekit",
		Usage: "Salesforce DX toolkit",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "forcekit version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		configCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
