package main

import "github.com/rjperrella/jenkins-fossil-adapter/cmd"

func main() {
	cmd.Run()
}
