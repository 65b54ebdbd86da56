package main

import "shared-gallery-gateway/cmd"

func main() {
	cmd.Run()
}
