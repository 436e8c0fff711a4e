// Command genhash prints a bcrypt hash for seeding admin accounts by hand.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"p2p-lending.backend/pkg/crypto"
)

var generateHashFn = crypto.HashPassword

func run(args []string, out io.Writer) error {
	if len(args) != 1 || args[0] == "" {
		return errors.New("usage: genhash <password>")
	}
	hash, err := generateHashFn(args[0])
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
