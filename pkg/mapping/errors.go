package mapping

import (
	"errors"
	"fmt"

	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/gnames/gn"
)

func ParseError(name string, err error) error {
	msg := "Cannot parse mapping table <em>%s</em>"
	vars := []any{name}
	return &gn.Error{
		Code: errcode.MappingParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot parse mapping table %s: %w", name, err),
	}
}

func GenerationError(name string, from, to sample.Generation) error {
	msg := "Mapping table <em>%s</em> cannot convert %s to %s"
	vars := []any{name, from, to}
	return &gn.Error{
		Code: errcode.MappingGenerationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("table %s: invalid generations %s -> %s",
			name, from, to),
	}
}

func DuplicateError(name, kind, key string) error {
	msg := "Mapping table <em>%s</em> has duplicate %s <em>%s</em>"
	vars := []any{name, kind, key}
	return &gn.Error{
		Code: errcode.MappingDuplicateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("table %s: duplicate %s %q", name, kind, key),
	}
}

func EntryError(name, source string) error {
	msg := "Mapping table <em>%s</em> cannot map field <em>%q</em>"
	vars := []any{name, source}
	return &gn.Error{
		Code: errcode.MappingEntryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("table %s: invalid source %q", name, source),
	}
}

func UnknownTableError(name string) error {
	msg := "Unknown mapping table <em>%s</em>"
	vars := []any{name}
	return &gn.Error{
		Code: errcode.MappingUnknownTableError,
		Msg:  msg,
		Vars: vars,
		Err:  errors.New("unknown mapping table " + name),
	}
}
