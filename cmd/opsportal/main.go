package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/connecthear/opsportal/pkg/model"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, model.ErrNoData) {
			fmt.Fprintln(os.Stderr, "Point --data (or OPSPORTAL_DATA) at a directory file, or create one with 'opsportal build'.")
		}
		os.Exit(1)
	}
}
