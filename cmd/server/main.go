package main

import "bistro_back_end/cmd/server/cmd"

func main() {
	cmd.Execute()
}
