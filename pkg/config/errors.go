package config

import (
	"errors"

	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/gnames/gn"
)

// MissingURIError is returned when a command needs MongoDB but no
// connection string is configured.
func MissingURIError() error {
	msg := `No MongoDB URI found

<em>How to fix:</em>
  1. Set <em>MONGODB_URI</em> (or <em>MONGODB_URI_DEV</em>) in the environment or .env file
  2. Or set <em>TRAPDB_MONGO_URI</em>
  3. Or add <em>mongo.uri</em> to the config file`

	return &gn.Error{
		Code: errcode.ConfigMissingURIError,
		Msg:  msg,
		Err:  errors.New("mongo uri is not configured"),
	}
}
