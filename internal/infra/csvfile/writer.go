// Package csvfile writes export rows to CSV files.
package csvfile

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/spotify-csv-export/internal/domain/export"
)

// Options represents the CSV writer settings.
type Options struct {
	LineEnding string `yaml:"line_ending" mapstructure:"line_ending" default:"crlf" validate:"oneof=crlf lf"`
}

// Writer writes rows into files under a directory.
type Writer struct {
	dir     string
	options *Options
}

// NewWriter creates a Writer for dir. settings are decoded into Options.
func NewWriter(dir string, settings map[string]any) (*Writer, error) {
	var options Options

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &options,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to decode csv settings"), export.ErrConfiguration)
	}

	if err := defaults.Set(&options); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(options); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "csv settings validation failed"), export.ErrConfiguration)
	}
	zlog.Debug().Msgf("csv writer options: %+v", options)

	if dir == "" {
		dir = "."
	}

	return &Writer{dir: dir, options: &options}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write creates (or truncates) the named file and writes the header followed by rows.
// Returns the number of data rows written.
func (w *Writer) Write(name string, rows []export.Row) (int, error) {
	path := filepath.Join(w.dir, name)

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return 0, ioError(err, "failed to create output directory %s", w.dir)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, ioError(err, "failed to create %s", path)
	}

	n, err := w.writeRecords(f, rows)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = ioError(cerr, "failed to close %s", path)
	}
	if err != nil {
		return n, err
	}

	zlog.Debug().Msgf("wrote %d rows to %s", n, path)
	return n, nil
}

func (w *Writer) writeRecords(f *os.File, rows []export.Row) (int, error) {
	cw := csv.NewWriter(f)
	cw.UseCRLF = w.options.LineEnding == "crlf"

	if err := cw.Write(export.Columns); err != nil {
		return 0, ioError(err, "failed to write header to %s", f.Name())
	}

	n := 0
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return n, ioError(err, "failed to write row to %s", f.Name())
		}
		n++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, ioError(err, "failed to flush %s", f.Name())
	}
	return n, nil
}

func ioError(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), export.ErrIO)
}
