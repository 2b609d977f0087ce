package main

import "github.com/Jabril-Mahamud/kuzco/cmd"

func main() {
	cmd.Execute()
}
