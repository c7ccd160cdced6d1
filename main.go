package main

import "medialibrary_backend/internals/cli"

func main() {
	cli.Execute()
}
