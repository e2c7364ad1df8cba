package main

import "pomo-backend/cmd"

func main() {
	cmd.Run()
}
