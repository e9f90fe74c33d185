// riskctl scores dealership CRM records from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/godilite/dealer-risk/internal/cli"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
