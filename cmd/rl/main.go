package main

import "ritualist/cmd/rl/root"

func main() {
	root.Execute()
}
