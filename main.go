package main

import "daily-checkin-backend/cmd"

func main() {
	cmd.Run()
}
