package main

import "github.com/blobfs/blobfs/cmd"

func main() {
	cmd.Execute()
}
