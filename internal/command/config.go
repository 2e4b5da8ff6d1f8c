// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/urfave/cli/v3"

	"github.com/forcekit/forcekit/internal/config"
	"github.com/forcekit/forcekit/internal/errs"
	"github.com/forcekit/forcekit/internal/meta"
)

// maskedValue replaces encrypted property values in human-readable output.
const maskedValue = "(encrypted)"

var globalFlag = &cli.BoolFlag{
	Name:    "global",
	Aliases: []string{"g"},
	Usage:   "operate on the global (per-user) config instead of the project config",
}

func configCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and update persisted CLI configuration",
		Metadata: map[string]any{
			"meta": m,
		},
		Commands: []*cli.Command{
			configListCommandBuilder(m),
			configGetCommandBuilder(m),
			configSetCommandBuilder(m),
			configUnsetCommandBuilder(m),
		},
	}
}

func configListCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List config values, project values overriding global ones",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "include hidden config keys",
			},
		},
		Action: configListAction,
	}
}

func configGetCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the effective value of one or more config keys",
		UsageText: "forcekit config get KEY [KEY...]",
		Action:    configGetAction,
	}
}

func configSetCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set one or more config values",
		UsageText: "forcekit config set KEY=VALUE [KEY=VALUE...]",
		Flags:     []cli.Flag{globalFlag},
		Action:    configSetAction,
	}
}

func configUnsetCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "unset",
		Usage:     "Remove one or more config values",
		UsageText: "forcekit config unset KEY [KEY...]",
		Flags:     []cli.Flag{globalFlag},
		Action:    configUnsetAction,
	}
}

// row is one effective config entry for display.
type row struct {
	key       string
	value     string
	location  string
	hidden    bool
	encrypted bool
}

// effectiveRows merges the global and local config files, local values
// overriding global ones. A missing project is treated the same as a missing
// local file.
func effectiveRows() ([]row, error) {
	merged := map[string]row{}
	var order []string

	for _, isGlobal := range []bool{true, false} {
		cfg, err := newConfig(isGlobal)
		if err != nil {
			if !isGlobal && errs.HasName(err, errs.NoProjectFound) {
				continue
			}
			return nil, err
		}

		contents, err := cfg.Read(false)
		if err != nil {
			return nil, err
		}

		location := "Local"
		if isGlobal {
			location = "Global"
		}

		contents.Entries(func(key string, value any) bool {
			if _, seen := merged[key]; !seen {
				order = append(order, key)
			}
			r := row{key: key, value: toString(value), location: location}
			if prop, ok := cfg.Schema().Get(key); ok {
				r.hidden = prop.Hidden
				r.encrypted = prop.Encrypted
			}
			merged[key] = r
			return true
		})
	}

	rows := make([]row, 0, len(order))
	for _, k := range order {
		rows = append(rows, merged[k])
	}
	return rows, nil
}

func configListAction(ctx context.Context, cmd *cli.Command) error {
	rows, err := effectiveRows()
	if err != nil {
		return err
	}

	headerStyle := lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
	cellStyle := lipgloss.NewStyle().Align(lipgloss.Left).PaddingRight(2)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(r, col int) lipgloss.Style {
			if r == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("KEY", "VALUE", "LOCATION").
		BorderHeader(false)

	for _, r := range rows {
		if r.hidden && !cmd.Bool("all") {
			continue
		}
		value := r.value
		if r.encrypted {
			value = maskedValue
		}
		t = t.Row(r.key, value, r.location)
	}

	fmt.Fprintln(cmd.Root().Writer, t)
	return nil
}

func configGetAction(ctx context.Context, cmd *cli.Command) error {
	keys := cmd.Args().Slice()
	if len(keys) == 0 {
		return fmt.Errorf("at least one KEY argument is required")
	}

	rows, err := effectiveRows()
	if err != nil {
		return err
	}

	byKey := map[string]row{}
	for _, r := range rows {
		byKey[r.key] = r
	}

	for _, key := range keys {
		r, ok := byKey[key]
		if !ok {
			fmt.Fprintf(cmd.Root().Writer, "%s=\n", key)
			continue
		}
		value := r.value
		if r.encrypted {
			value = maskedValue
		}
		fmt.Fprintf(cmd.Root().Writer, "%s=%s\n", key, value)
	}
	return nil
}

func configSetAction(ctx context.Context, cmd *cli.Command) error {
	pairs := cmd.Args().Slice()
	if len(pairs) == 0 {
		return fmt.Errorf("at least one KEY=VALUE argument is required")
	}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return fmt.Errorf("expected KEY=VALUE, got %q", pair)
		}
		if _, err := config.Update(cmd.Bool("global"), key, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.Root().Writer, "set %s\n", key)
	}
	return nil
}

func configUnsetAction(ctx context.Context, cmd *cli.Command) error {
	keys := cmd.Args().Slice()
	if len(keys) == 0 {
		return fmt.Errorf("at least one KEY argument is required")
	}

	for _, key := range keys {
		if _, err := config.Update(cmd.Bool("global"), key, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.Root().Writer, "unset %s\n", key)
	}
	return nil
}

// newConfig is indirected for tests.
var newConfig = func(isGlobal bool) (*config.Config, error) {
	if isGlobal {
		return config.NewGlobal()
	}
	return config.NewLocal()
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
