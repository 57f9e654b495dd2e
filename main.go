package main

import "github.com/Norgate-AV/clcache/cmd"

func main() {
	cmd.Execute()
}
