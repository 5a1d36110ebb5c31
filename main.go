package main

import (
	"github.com/charlesgretton/credis/cmd"
)

func main() {
	cmd.Execute()
}
