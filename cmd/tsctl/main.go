package main

import "timesheet-backend/internal/cli"

func main() {
	cli.Execute()
}
