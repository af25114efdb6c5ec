package main

import "github.com/LumeraProtocol/web3go/cmd/web3cli/cmd"

func main() {
	cmd.Execute()
}
