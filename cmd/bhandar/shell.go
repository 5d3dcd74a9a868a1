package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

const prompt = "bhandar> "

// Shell reads commands from in until EOF or "exit". Errors from the daemon
// have already been printed by the Handler and do not stop the loop.
func (h *Handler) Shell(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(h.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}

		exit, err := h.Exec(ctx, scanner.Text())
		var uerr *usageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(h.err, uerr)
		}
		if exit {
			fmt.Fprintln(h.out, "Exiting...")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
