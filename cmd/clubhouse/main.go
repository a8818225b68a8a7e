package main

import "clubhouse-backend/cmd/clubhouse/cmd"

func main() {
	cmd.Execute()
}
