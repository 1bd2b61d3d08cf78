package main

import (
	"github.com/yuezhaodesign/Inkspire/cli"
)

func main() {
	cli.Execute()
}
