package main

import "levelup/cmd/levelup/root"

func main() {
	root.Execute()
}
