package mcp

import (
	"errors"
	"strings"
)

var errNoDatabase = errors.New("this tool requires a database connection")

func requireName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New(field + " is required")
	}
	return value, nil
}
