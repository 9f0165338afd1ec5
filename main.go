package main

import "github.com/VoxDroid/sunprep/cmd"

func main() {
	cmd.Execute()
}
