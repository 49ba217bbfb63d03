package main

import "github.com/frahmantamala/workforce-admin/cmd"

func main() {
	cmd.Execute()
}
