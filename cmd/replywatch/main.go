package main

import "github.com/replywatch/replywatch/internal/cli"

func main() {
	cli.Execute()
}
