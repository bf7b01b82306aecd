package main

import (
	"github.com/nimburion/storefront/pkg/cli"
	"github.com/nimburion/storefront/pkg/service"
)

func main() {
	cmd := cli.NewServiceCommand(cli.ServiceCommandOptions{
		Name:              "storefront",
		Description:       "E-commerce catalogue and order API backed by MongoDB",
		RunServer:         service.Serve,
		CheckDependencies: service.CheckDependencies,
		CustomCommands:    service.Commands,
	})
	cli.Execute(cmd)
}
