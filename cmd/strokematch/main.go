package main

import "github.com/LdDl/strokematch/cmd"

func main() {
	cmd.Execute()
}
