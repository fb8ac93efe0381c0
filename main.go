package main

import server "github.com/schoolink/comms/cmd/server"

func main() {
	server.NewServer().Run()
}
