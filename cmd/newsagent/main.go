package main

import "github.com/smallnest/newsagent/cli"

func main() {
	cli.Execute()
}
