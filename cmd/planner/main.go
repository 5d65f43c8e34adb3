// Command planner is a terminal client for the travel planner: it signs in
// against the backend, keeps the session in a local SQLite file, and prints
// simulated allergy warnings for locations and saved destinations.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	root, cleanup := newRootCmd()
	err := root.Execute()
	if cerr := cleanup(); cerr != nil {
		fmt.Fprintf(os.Stderr, "close session storage: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
