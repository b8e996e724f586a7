package main

import (
	"errors"
	"fmt"
	"os"

	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps configuration errors to 2 and everything else to 1.
func exitCode(err error) int {
	var validationErr *emuerrors.ValidationError
	var parseErr *emuerrors.ParseError
	if errors.As(err, &validationErr) || errors.As(err, &parseErr) {
		return 2
	}
	return 1
}
