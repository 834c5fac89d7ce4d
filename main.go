package main

import "github.com/Bitlatte/pinpage/cmd"

func main() {
	cmd.Execute()
}
