package main

import "github.com/sojournii/sojournii/cmd"

func main() {
	cmd.Execute()
}
