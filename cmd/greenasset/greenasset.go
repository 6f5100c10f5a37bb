package main

import (
	"github.com/greenasset/tokend/cmd/greenasset/cmd"
)

func main() {
	cmd.Execute()
}
