package main

import "shiftpay/internal/app/server"

func main() {
	server.Run()
}
