package main

import "github.com/KaramelBytes/efindex-cli/cmd"

func main() {
	cmd.Execute()
}
