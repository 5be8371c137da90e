package cli

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
)

// printResult writes one command result. When --json is active only the
// JSON encoding of data goes to stdout; textFn runs in text mode only.
func printResult(data any, textFn func() error) error {
	if jsonOutput {
		fmt.Println(oj.JSON(data, 2))
		return nil
	}
	return textFn()
}
