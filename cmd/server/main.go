package main

import (
	"github.com/tobi-oke/clipchat-backend/internal/bootstrap"
)

func main() {
	bootstrap.Run()
}
