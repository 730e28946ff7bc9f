package main

import "github.com/user/gitstar/cmd"

func main() {
	cmd.Execute()
}
