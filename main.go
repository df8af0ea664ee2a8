package main

import "github.com/josephlewis42/lsh/cmd"

func main() {
	cmd.Execute()
}
