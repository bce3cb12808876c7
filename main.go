package main

import "github.com/hm-edu/dyndns/cmd"

func main() {
	cmd.Execute()
}
