package main

import "github.com/xvierd/reps/cmd"

func main() {
	cmd.Execute()
}
