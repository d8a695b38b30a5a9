package main

import (
	"io"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	jsonhandler "github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/pkg/errors"
)

func newLogger(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	var handler log.Handler
	switch format {
	case "cli", "":
		handler = cli.New(w)
	case "text":
		handler = text.New(w)
	case "json":
		handler = jsonhandler.New(w)
	default:
		return nil, errors.Errorf("unknown log format %q", format)
	}

	return &log.Logger{Handler: handler, Level: lvl}, nil
}
