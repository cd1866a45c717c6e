package main

import "github.com/user/video-clip-cli/cmd"

func main() {
	cmd.Execute()
}
