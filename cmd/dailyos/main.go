package main

import (
	"os"

	"github.com/julianstephens/dailyos/internal/cli"
	apperrors "github.com/julianstephens/dailyos/internal/errors"
)

func main() {
	apperrors.Fatal(cli.Execute(os.Args[1:], os.Stdout))
}
