package main

import "github.com/slivka-go/taskqueue/cmd"

func main() {
	cmd.Execute()
}
