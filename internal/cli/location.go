package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rileyhilliard/powerdash/internal/config"
	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/rileyhilliard/powerdash/internal/telemetry"
	"github.com/rileyhilliard/powerdash/internal/ui"
)

var locationColumns = []ui.TableColumn{
	{Title: "#", Width: 3},
	{Title: "Name"},
	{Title: "Topic"},
	{Title: "Color", Width: 8},
}

// locationListCommand prints the configured locations.
func locationListCommand(w io.Writer, reg *telemetry.Registry) error {
	if machineMode {
		out := make([]config.LocationConfig, 0, reg.Len())
		for _, loc := range reg.Locations() {
			out = append(out, config.LocationConfig{Name: loc.Name, Topic: loc.Topic, Color: loc.Color})
		}
		return WriteJSONSuccess(w, out)
	}

	rows := make([][]string, 0, reg.Len())
	for _, loc := range reg.Locations() {
		color := loc.Color
		if color == "" {
			color = "auto"
		}
		rows = append(rows, []string{strconv.Itoa(loc.Index + 1), loc.Name, loc.Topic, color})
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No locations configured")
		return err
	}
	_, err := fmt.Fprintln(w, ui.RenderSimpleTable(locationColumns, rows))
	return err
}

// locationAddCommand appends a location to the config file at path, keeping
// the rest of the file untouched.
func locationAddCommand(w io.Writer, path string, loc config.LocationConfig) error {
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file to add the location to",
			"Run 'powerdash init' first, or point --config at your file")
	}
	if loc.Topic == "" {
		return errors.New(errors.ErrConfig,
			"A location needs a topic",
			"Pass --topic, e.g. --topic modbus/data")
	}
	if loc.Name == "" {
		loc.Name = loc.Topic
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.Locations = append(cfg.Locations, loc)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := config.AddLocation(path, loc); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't add %s to %s", loc.Name, path),
			"Check the file is valid YAML with a 'locations' list")
	}

	if machineMode {
		return WriteJSONSuccess(w, loc)
	}
	_, err = fmt.Fprintf(w, "%s Added %s (%s) to %s\n", ui.SymbolSuccess, loc.Name, loc.Topic, path)
	return err
}
