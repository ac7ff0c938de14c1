package main

import (
	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/startup"
	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/startup/config"
)

func main() {
	cfg := config.NewConfig()
	server := startup.NewServer(cfg)
	server.Start()
}
