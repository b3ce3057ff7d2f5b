package main

import "github.com/deploymenttheory/go-jsontree/cmd"

func main() {
	cmd.Execute()
}
