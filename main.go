package main

import "github.com/gopherstats/readme-stats/cmd"

func main() {
	cmd.Execute()
}
