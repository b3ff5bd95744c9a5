package main

import (
	"tahofeed/cmd/handlers"
	"tahofeed/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
