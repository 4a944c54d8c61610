package main

import (
	"github.com/arbor-network/arbor-wallet/cmd/cli"
)

func main() {
	cli.Execute()
}
