package main

import "github.com/frahmantamala/employee-api/cmd"

func main() {
	cmd.Execute()
}
