package main

import (
	"github.com/vaultpay/chainwatch/internal/server"
)

func main() {
	server.Init()
}
